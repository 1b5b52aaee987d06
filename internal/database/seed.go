package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user if none exists. The admin will be
// prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, plan_tier, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "admin@promptforge.local", string(hash), "Admin", "admin", "pro", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A few showcase entries so the public listing is not empty in dev.
	entries := []struct {
		name, niche, platform, url string
	}{
		{"TaskFlow", "productivity", "lovable", "https://taskflow.example.com"},
		{"FitCoach", "fitness coaching", "bolt", "https://fitcoach.example.com"},
		{"InvoiceOwl", "freelance invoicing", "v0", "https://invoiceowl.example.com"},
	}
	for _, e := range entries {
		_, err = db.Exec(`
			INSERT INTO showcase_entries (name, niche, platform, url)
			VALUES ($1, $2, $3, $4)
		`, e.name, e.niche, e.platform, e.url)
		if err != nil {
			return fmt.Errorf("seed insert showcase entry: %w", err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@promptforge.local",
		"password", "admin",
	)

	return nil
}
