// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Candidate is one provider/model pair in a fallback chain, with its own
// per-attempt timeout.
type Candidate struct {
	Provider string
	Model    string
	Timeout  time.Duration
}

// DefaultAttemptTimeout bounds a single candidate attempt when the
// candidate declares none.
const DefaultAttemptTimeout = 75 * time.Second

// Chain tries an ordered list of candidates sequentially: the first
// non-empty response wins, and a failed or empty attempt moves straight
// to the next candidate with no backoff. When every candidate fails, the
// returned error concatenates each attempt's message so the caller sees
// the full picture.
//
// Candidate order is part of the product contract — different endpoints
// carry deliberately different priorities — so chains are built per call
// site, not shared.
type Chain struct {
	registry   *Registry
	candidates []Candidate
}

// NewChain builds a chain over the registry with the given candidate
// order.
func NewChain(registry *Registry, candidates []Candidate) *Chain {
	return &Chain{registry: registry, candidates: candidates}
}

// Candidates returns a copy of the chain's candidate list in order.
func (c *Chain) Candidates() []Candidate {
	out := make([]Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// Generate walks the candidate list until one returns a non-empty
// response. Candidates whose provider is not configured are counted as
// failed attempts, not skipped silently.
func (c *Chain) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if len(c.candidates) == 0 {
		return "", fmt.Errorf("ai: chain has no candidates")
	}

	var failures []string
	for _, cand := range c.candidates {
		text, err := c.attempt(ctx, cand, systemPrompt, userPrompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		slog.Warn("generation attempt failed",
			"provider", cand.Provider,
			"model", cand.Model,
			"error", err,
		)
		failures = append(failures, fmt.Sprintf("%s/%s: %v", cand.Provider, cand.Model, err))

		// A cancelled parent context ends the chain — the remaining
		// candidates would fail the same way.
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("ai: all models failed: %s", strings.Join(failures, "; "))
}

// attempt runs a single candidate under its own timeout.
func (c *Chain) attempt(ctx context.Context, cand Candidate, systemPrompt, userPrompt string) (string, error) {
	p, err := c.registry.Provider(cand.Provider)
	if err != nil {
		return "", err
	}

	timeout := cand.Timeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if mp, ok := p.(ModelProvider); ok && cand.Model != "" {
		return mp.GenerateWithModel(attemptCtx, cand.Model, systemPrompt, userPrompt)
	}
	return p.Generate(attemptCtx, systemPrompt, userPrompt)
}

// Default chains for the two generation endpoints. The orderings differ
// on purpose: PRD generation prefers the strongest long-form writer
// first, while feature specs prefer the fastest capable model.
// Keep them separate — do not unify without confirming priority per
// endpoint.

// DefaultPRDChain is the candidate order for full PRD generation.
func DefaultPRDChain(registry *Registry) *Chain {
	return NewChain(registry, []Candidate{
		{Provider: "claude", Model: "claude-sonnet-4-5"},
		{Provider: "openai", Model: "gpt-4o"},
		{Provider: "gemini", Model: "gemini-2.0-flash"},
		{Provider: "mistral", Model: "mistral-large-latest"},
	})
}

// DefaultFeatureChain is the candidate order for feature-spec generation.
func DefaultFeatureChain(registry *Registry) *Chain {
	return NewChain(registry, []Candidate{
		{Provider: "gemini", Model: "gemini-2.0-flash"},
		{Provider: "openai", Model: "gpt-4o-mini"},
		{Provider: "claude", Model: "claude-sonnet-4-5"},
	})
}
