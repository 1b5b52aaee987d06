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

// promptTemplateColumns lists all columns for prompt_templates SELECTs.
const promptTemplateColumns = `id, owner_id, name, content, version, created_at, updated_at`

// PromptTemplateStore handles user prompt templates and their revisions.
type PromptTemplateStore struct {
	db *sql.DB
}

// NewPromptTemplateStore creates a new PromptTemplateStore with the given
// database connection.
func NewPromptTemplateStore(db *sql.DB) *PromptTemplateStore {
	return &PromptTemplateStore{db: db}
}

func scanPromptTemplate(scanner interface{ Scan(...any) error }) (*models.PromptTemplate, error) {
	var t models.PromptTemplate
	err := scanner.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Content, &t.Version,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOwner returns a user's templates ordered by name.
func (s *PromptTemplateStore) ListByOwner(ownerID uuid.UUID) ([]models.PromptTemplate, error) {
	rows, err := s.db.Query(`
		SELECT `+promptTemplateColumns+`
		FROM prompt_templates
		WHERE owner_id = $1
		ORDER BY name
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list prompt templates: %w", err)
	}
	defer rows.Close()

	var templates []models.PromptTemplate
	for rows.Next() {
		t, err := scanPromptTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *PromptTemplateStore) FindByID(id uuid.UUID) (*models.PromptTemplate, error) {
	row := s.db.QueryRow(`SELECT `+promptTemplateColumns+` FROM prompt_templates WHERE id = $1`, id)
	t, err := scanPromptTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find prompt template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template at version 1.
func (s *PromptTemplateStore) Create(t *models.PromptTemplate) (*models.PromptTemplate, error) {
	row := s.db.QueryRow(`
		INSERT INTO prompt_templates (owner_id, name, content, version)
		VALUES ($1, $2, $3, 1)
		RETURNING `+promptTemplateColumns,
		t.OwnerID, t.Name, t.Content,
	)
	result, err := scanPromptTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create prompt template: %w", err)
	}
	return result, nil
}

// Update replaces a template's body, bumps its version, and archives the
// previous body as a revision. Runs in a transaction so the revision and
// the update land together.
func (s *PromptTemplateStore) Update(id uuid.UUID, name, content string, updatedBy uuid.UUID) (*models.PromptTemplate, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prev, err := scanPromptTemplate(tx.QueryRow(
		`SELECT `+promptTemplateColumns+` FROM prompt_templates WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO prompt_template_revisions (template_id, name, content, version, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, prev.ID, prev.Name, prev.Content, prev.Version, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("archive prompt template revision: %w", err)
	}

	row := tx.QueryRow(`
		UPDATE prompt_templates SET
			name = $1, content = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3
		RETURNING `+promptTemplateColumns,
		name, content, id,
	)
	result, err := scanPromptTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("update prompt template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// Delete removes a template and its revisions (cascade).
func (s *PromptTemplateStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM prompt_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt template: %w", err)
	}
	return nil
}

// promptTemplateRevisionColumns lists all columns for revision SELECTs.
const promptTemplateRevisionColumns = `id, template_id, name, content, version, created_by, created_at`

func scanPromptTemplateRevision(scanner interface{ Scan(...any) error }) (*models.PromptTemplateRevision, error) {
	var r models.PromptTemplateRevision
	err := scanner.Scan(
		&r.ID, &r.TemplateID, &r.Name, &r.Content, &r.Version,
		&r.CreatedBy, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRevisions returns all archived bodies of a template, newest first.
func (s *PromptTemplateStore) ListRevisions(templateID uuid.UUID) ([]*models.PromptTemplateRevision, error) {
	rows, err := s.db.Query(`
		SELECT `+promptTemplateRevisionColumns+`
		FROM prompt_template_revisions
		WHERE template_id = $1
		ORDER BY version DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list prompt template revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*models.PromptTemplateRevision
	for rows.Next() {
		r, err := scanPromptTemplateRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt template revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// FindRevision returns a single archived revision by its ID.
func (s *PromptTemplateStore) FindRevision(id uuid.UUID) (*models.PromptTemplateRevision, error) {
	row := s.db.QueryRow(`
		SELECT `+promptTemplateRevisionColumns+`
		FROM prompt_template_revisions
		WHERE id = $1
	`, id)
	r, err := scanPromptTemplateRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}
