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

// projectColumns lists all columns for projects SELECTs.
const projectColumns = `id, user_id, kind, name, input, variant,
	composed_prompt, generated_doc, created_at, updated_at`

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func scanProject(scanner interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Kind, &p.Name, &p.Input, &p.Variant,
		&p.ComposedPrompt, &p.GeneratedDoc, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new project and returns it with the generated ID.
func (s *ProjectStore) Create(p *models.Project) (*models.Project, error) {
	row := s.db.QueryRow(`
		INSERT INTO projects (user_id, kind, name, input, variant, composed_prompt, generated_doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		p.UserID, p.Kind, p.Name, p.Input, p.Variant, p.ComposedPrompt, p.GeneratedDoc,
	)
	result, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return result, nil
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// ListByUser returns a user's projects, newest first.
func (s *ProjectStore) ListByUser(userID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateDocument replaces the composed prompt and generated document after
// a regeneration, keeping the stored input in sync with what was used.
func (s *ProjectStore) UpdateDocument(id uuid.UUID, input []byte, composed, generated string) error {
	_, err := s.db.Exec(`
		UPDATE projects SET
			input = $1, composed_prompt = $2, generated_doc = $3, updated_at = NOW()
		WHERE id = $4
	`, input, composed, generated, id)
	if err != nil {
		return fmt.Errorf("update project document: %w", err)
	}
	return nil
}

// Rename changes a project's display name.
func (s *ProjectStore) Rename(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`
		UPDATE projects SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("rename project: %w", err)
	}
	return nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// CountByUser returns how many projects a user has saved.
func (s *ProjectStore) CountByUser(userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM projects WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}
