// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ShowcaseEntry is a community-submitted app built from a generated
// prompt, listed publicly. The showcase is small and read-heavy, so the
// API filters a cached in-memory slice rather than querying per request.
type ShowcaseEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Niche     string    `json:"niche"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}
