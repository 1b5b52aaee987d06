// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

// UsageStore tracks monthly generation counts per user. The quota check
// reads the current month's count before a generation and Increment
// records it afterwards.
type UsageStore struct {
	db *sql.DB
}

// NewUsageStore creates a new UsageStore with the given database connection.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db}
}

// CountForMonth returns the user's generation count for the given month
// key ("2006-01"). A missing row counts as zero.
func (s *UsageStore) CountForMonth(userID uuid.UUID, month string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT count FROM usage_months WHERE user_id = $1 AND month = $2
	`, userID, month).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count usage: %w", err)
	}
	return count, nil
}

// Increment adds one generation to the user's counter for the month
// containing now, creating the row if it does not exist yet.
func (s *UsageStore) Increment(userID uuid.UUID, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO usage_months (user_id, month, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, month)
		DO UPDATE SET count = usage_months.count + 1, updated_at = NOW()
	`, userID, models.MonthKey(now))
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// History returns a user's usage rows, newest month first.
func (s *UsageStore) History(userID uuid.UUID, limit int) ([]models.UsageMonth, error) {
	rows, err := s.db.Query(`
		SELECT user_id, month, count, updated_at
		FROM usage_months
		WHERE user_id = $1
		ORDER BY month DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("usage history: %w", err)
	}
	defer rows.Close()

	var months []models.UsageMonth
	for rows.Next() {
		var m models.UsageMonth
		if err := rows.Scan(&m.UserID, &m.Month, &m.Count, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan usage month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}
