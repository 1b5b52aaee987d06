// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProjectKind identifies which wizard family produced a project.
type ProjectKind string

const (
	ProjectSaaS    ProjectKind = "saas"
	ProjectLanding ProjectKind = "landing"
	ProjectFeature ProjectKind = "feature"
)

// Project is a saved generation: the structured input the user assembled,
// the composed prompt, and the document the LLM produced from it.
// Regeneration composes a fresh prompt from the stored input and
// overwrites GeneratedDoc.
type Project struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Kind           ProjectKind     `json:"kind"`
	Name           string          `json:"name"`
	Input          json.RawMessage `json:"input"`   // wizard.Input snapshot, stored as JSONB
	Variant        string          `json:"variant"` // SaaS composer variant used
	ComposedPrompt string          `json:"composed_prompt"`
	GeneratedDoc   string          `json:"generated_doc"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
