// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/ai"
	"promptforge/internal/composer"
	"promptforge/internal/models"
	"promptforge/internal/plan"
	"promptforge/internal/store"
	"promptforge/internal/wizard"
)

// System prompts for the two generation endpoints. PRDs want a product
// writer; feature specs want a terser engineering voice.
const (
	prdSystemPrompt = "You are a senior product manager. Expand the provided product brief " +
		"into a complete, well-structured PRD in Markdown. Keep every constraint from the " +
		"brief, never invent pricing or features it rules out, and write for an AI " +
		"code-generation tool that will build the product from your document."

	featureSystemPrompt = "You are a software engineer writing a feature specification. " +
		"Expand the provided brief into a focused Markdown spec: scope, user flows, data, " +
		"and acceptance criteria. Stay within the brief's constraints."
)

// ErrUnsafePrompt marks wizard input rejected by content moderation.
// Handlers map it to a 422 with the flagged categories.
var ErrUnsafePrompt = errors.New("prompt rejected by content moderation")

// Generator runs the full generation pipeline: quota check, moderation,
// composition, LLM chain, persistence, and usage accounting. Wizard
// generation and project regeneration share it.
type Generator struct {
	registry     *ai.Registry
	prdChain     *ai.Chain
	featureChain *ai.Chain
	users        *store.UserStore
	projects     *store.ProjectStore
	usage        *store.UsageStore
	limits       plan.Limits
}

// NewGenerator wires the generation pipeline.
func NewGenerator(registry *ai.Registry, prdChain, featureChain *ai.Chain, users *store.UserStore, projects *store.ProjectStore, usage *store.UsageStore, limits plan.Limits) *Generator {
	return &Generator{
		registry:     registry,
		prdChain:     prdChain,
		featureChain: featureChain,
		users:        users,
		projects:     projects,
		usage:        usage,
		limits:       limits,
	}
}

// checkQuota verifies the user still has generations left this month.
// The tier comes from the user row, not the session: a webhook-driven
// plan change must take effect without a new login. Returns
// plan.ErrQuotaExceeded (wrapped) when the allowance is spent.
func (g *Generator) checkQuota(userID uuid.UUID) error {
	user, err := g.users.FindByID(userID)
	if err != nil {
		return fmt.Errorf("user lookup: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userID)
	}

	used, err := g.usage.CountForMonth(userID, models.MonthKey(time.Now()))
	if err != nil {
		return fmt.Errorf("usage count: %w", err)
	}
	return g.limits.Allow(user.PlanTier, used)
}

// moderate runs the free-text wizard fields through the moderation API.
// Enumerated fields never reach the check; only user-typed text can
// carry policy violations.
func (g *Generator) moderate(ctx context.Context, in wizard.Input) error {
	parts := []string{in.AppName, in.Niche, in.TargetAudience, in.Description}
	parts = append(parts, in.Features...)
	parts = append(parts, in.Sections...)
	parts = append(parts, in.Monetization.Plans...)

	var text []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			text = append(text, p)
		}
	}
	if len(text) == 0 {
		return nil
	}

	result, err := g.registry.CheckPrompt(ctx, strings.Join(text, "\n"))
	if err != nil {
		return fmt.Errorf("moderation: %w", err)
	}
	if !result.Safe {
		return fmt.Errorf("%w: %s", ErrUnsafePrompt, strings.Join(result.Categories, ", "))
	}
	return nil
}

// compose produces the prompt document for a project kind.
func compose(kind models.ProjectKind, in wizard.Input, variant composer.Variant) string {
	switch kind {
	case models.ProjectLanding:
		return composer.ComposeLanding(in)
	case models.ProjectFeature:
		return composer.ComposeFeature(in)
	default:
		return composer.ComposeSaaS(in, composer.Options{Variant: variant})
	}
}

// chainFor picks the candidate chain and system prompt for a kind.
func (g *Generator) chainFor(kind models.ProjectKind) (*ai.Chain, string) {
	if kind == models.ProjectFeature {
		return g.featureChain, featureSystemPrompt
	}
	return g.prdChain, prdSystemPrompt
}

// Generate runs the pipeline for a completed wizard input and persists
// the result as a new project owned by userID.
func (g *Generator) Generate(ctx context.Context, userID uuid.UUID, kind models.ProjectKind, variant composer.Variant, name string, in wizard.Input) (*models.Project, error) {
	if err := g.checkQuota(userID); err != nil {
		return nil, err
	}
	if err := g.moderate(ctx, in); err != nil {
		return nil, err
	}

	composed := compose(kind, in, variant)

	chain, system := g.chainFor(kind)
	doc, err := chain.Generate(ctx, system, composed)
	if err != nil {
		return nil, err
	}

	inputJSON, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("input marshal: %w", err)
	}

	if name = strings.TrimSpace(name); name == "" {
		name = strings.TrimSpace(in.AppName)
	}
	if name == "" {
		name = "Untitled project"
	}

	project, err := g.projects.Create(&models.Project{
		UserID:         userID,
		Kind:           kind,
		Name:           name,
		Input:          inputJSON,
		Variant:        string(variant),
		ComposedPrompt: composed,
		GeneratedDoc:   doc,
	})
	if err != nil {
		return nil, err
	}

	// The document already exists; losing one usage tick is better than
	// failing the request after the expensive part succeeded.
	if err := g.usage.Increment(userID, time.Now()); err != nil {
		slog.Error("usage increment failed", "user_id", userID, "error", err)
	}
	return project, nil
}

// Regenerate re-runs composition and the LLM chain from a project's
// stored input, overwriting its documents in place. Counts against the
// monthly quota like a fresh generation.
func (g *Generator) Regenerate(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := g.checkQuota(project.UserID); err != nil {
		return nil, err
	}

	var in wizard.Input
	if err := json.Unmarshal(project.Input, &in); err != nil {
		return nil, fmt.Errorf("stored input unmarshal: %w", err)
	}

	if err := g.moderate(ctx, in); err != nil {
		return nil, err
	}

	composed := compose(project.Kind, in, composer.Variant(project.Variant))

	chain, system := g.chainFor(project.Kind)
	doc, err := chain.Generate(ctx, system, composed)
	if err != nil {
		return nil, err
	}

	if err := g.projects.UpdateDocument(project.ID, project.Input, composed, doc); err != nil {
		return nil, err
	}
	if err := g.usage.Increment(project.UserID, time.Now()); err != nil {
		slog.Error("usage increment failed", "user_id", project.UserID, "error", err)
	}

	project.ComposedPrompt = composed
	project.GeneratedDoc = doc
	return project, nil
}
