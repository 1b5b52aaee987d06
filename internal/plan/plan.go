// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package plan defines the subscription tiers and the per-tier monthly
// generation quota. Limits are data-driven: the defaults below can be
// overridden from configuration without a redeploy.
package plan

import (
	"errors"
	"fmt"
)

// Tier is a usage-limit bucket a user belongs to.
type Tier string

const (
	TierFree    Tier = "free"
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
)

// ErrQuotaExceeded marks the pre-emptive quota check failing. Handlers
// map it to a specific "upgrade your plan" response instead of a generic
// error.
var ErrQuotaExceeded = errors.New("plan: monthly generation quota exceeded")

// Default monthly generation limits per tier.
const (
	DefaultFreeLimit    = 5
	DefaultStarterLimit = 100
	DefaultProLimit     = 400
)

// Limits maps each tier to its monthly generation allowance.
type Limits struct {
	Free    int
	Starter int
	Pro     int
}

// DefaultLimits returns the built-in allowances.
func DefaultLimits() Limits {
	return Limits{
		Free:    DefaultFreeLimit,
		Starter: DefaultStarterLimit,
		Pro:     DefaultProLimit,
	}
}

// Limit returns the monthly allowance for a tier. Unknown tiers get the
// free allowance — a missing or corrupt tier value must never unlock
// unlimited generation.
func (l Limits) Limit(t Tier) int {
	switch t {
	case TierStarter:
		return l.Starter
	case TierPro:
		return l.Pro
	default:
		return l.Free
	}
}

// Allow checks used against the tier's limit before any generation
// attempt. Returns ErrQuotaExceeded (wrapped with the numbers) when the
// allowance is spent.
func (l Limits) Allow(t Tier, used int) error {
	limit := l.Limit(t)
	if used >= limit {
		return fmt.Errorf("%w: %d of %d used on the %s plan", ErrQuotaExceeded, used, limit, t)
	}
	return nil
}

// Valid reports whether t is a known tier.
func Valid(t Tier) bool {
	switch t {
	case TierFree, TierStarter, TierPro:
		return true
	}
	return false
}
