// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

// showcaseColumns lists all columns for showcase_entries SELECTs.
const showcaseColumns = `id, name, niche, platform, url, votes, created_at`

// ShowcaseStore handles the public showcase listing.
type ShowcaseStore struct {
	db *sql.DB
}

// NewShowcaseStore creates a new ShowcaseStore with the given database connection.
func NewShowcaseStore(db *sql.DB) *ShowcaseStore {
	return &ShowcaseStore{db: db}
}

func scanShowcaseEntry(scanner interface{ Scan(...any) error }) (*models.ShowcaseEntry, error) {
	var e models.ShowcaseEntry
	err := scanner.Scan(&e.ID, &e.Name, &e.Niche, &e.Platform, &e.URL, &e.Votes, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all showcase entries, most voted first. The full list is
// cached by the handler layer, so this runs rarely.
func (s *ShowcaseStore) List() ([]models.ShowcaseEntry, error) {
	rows, err := s.db.Query(`
		SELECT ` + showcaseColumns + `
		FROM showcase_entries
		ORDER BY votes DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list showcase entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ShowcaseEntry
	for rows.Next() {
		e, err := scanShowcaseEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan showcase entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Create inserts a new showcase entry with zero votes.
func (s *ShowcaseStore) Create(e *models.ShowcaseEntry) (*models.ShowcaseEntry, error) {
	row := s.db.QueryRow(`
		INSERT INTO showcase_entries (name, niche, platform, url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+showcaseColumns,
		e.Name, e.Niche, e.Platform, e.URL,
	)
	result, err := scanShowcaseEntry(row)
	if err != nil {
		return nil, fmt.Errorf("create showcase entry: %w", err)
	}
	return result, nil
}

// Vote increments an entry's vote counter.
func (s *ShowcaseStore) Vote(id uuid.UUID) error {
	result, err := s.db.Exec(`UPDATE showcase_entries SET votes = votes + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("vote showcase entry: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an entry by ID.
func (s *ShowcaseStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM showcase_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete showcase entry: %w", err)
	}
	return nil
}
