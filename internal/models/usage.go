// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageMonth counts a user's generations for one calendar month. The
// quota check compares Count against the user's plan limit before any
// generation attempt.
type UsageMonth struct {
	UserID    uuid.UUID `json:"user_id"`
	Month     string    `json:"month"` // "2006-01" format
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthKey formats t as the usage-table month key.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
