// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptforge/internal/composer"
	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/plan"
	"promptforge/internal/render"
	"promptforge/internal/wizard"
)

// Wizard exposes the step-by-step input collection flow. Machines live
// in Valkey; every request loads, applies one transition, and saves.
type Wizard struct {
	machines *wizard.Store
	gen      *Generator
}

// NewWizard creates the wizard handler group.
func NewWizard(machines *wizard.Store, gen *Generator) *Wizard {
	return &Wizard{machines: machines, gen: gen}
}

// wizardState is the JSON shape of a machine returned to the client.
type wizardState struct {
	ID         string       `json:"id"`
	Step       int          `json:"step"`
	TotalSteps int          `json:"total_steps"`
	Progress   int          `json:"progress"`
	Done       bool         `json:"done"`
	CanAdvance bool         `json:"can_advance"`
	Input      wizard.Input `json:"input"`
}

func stateOf(id string, m *wizard.Machine) wizardState {
	return wizardState{
		ID:         id,
		Step:       m.Step,
		TotalSteps: m.TotalSteps(),
		Progress:   m.Progress(),
		Done:       m.Done,
		CanAdvance: m.CanAdvance(),
		Input:      m.Input,
	}
}

// load fetches the machine for the {id} URL parameter, scoped to the
// session's user so one user's wizard id never resolves for another.
// Returns ("", nil) when a response was written.
func (h *Wizard) load(w http.ResponseWriter, r *http.Request) (string, *wizard.Machine) {
	sess := middleware.SessionFromCtx(r.Context())

	id := chi.URLParam(r, "id")
	m, err := h.machines.Get(r.Context(), sess.UserID, id)
	if err != nil {
		render.Internal(w, err)
		return "", nil
	}
	if m == nil {
		render.Error(w, http.StatusNotFound, "wizard session not found or expired")
		return "", nil
	}
	return id, m
}

// save persists the machine and responds with its new state.
func (h *Wizard) save(w http.ResponseWriter, r *http.Request, id string, m *wizard.Machine) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := h.machines.Save(r.Context(), sess.UserID, id, m); err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, stateOf(id, m))
}

// Start creates a fresh wizard session for the logged-in user.
func (h *Wizard) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, m, err := h.machines.Start(r.Context(), sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, stateOf(id, m))
}

// State returns the current machine without mutating it.
func (h *Wizard) State(w http.ResponseWriter, r *http.Request) {
	id, m := h.load(w, r)
	if m == nil {
		return
	}
	render.JSON(w, http.StatusOK, stateOf(id, m))
}

// UpdateField merges one field value into the input under construction.
func (h *Wizard) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, m := h.load(w, r)
	if m == nil {
		return
	}

	var req struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := m.UpdateField(req.Key, req.Value); err != nil {
		render.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.save(w, r, id, m)
}

// Next advances one step, entering the result state from the last step.
// A blocked guard returns 409 with the unchanged state.
func (h *Wizard) Next(w http.ResponseWriter, r *http.Request) {
	id, m := h.load(w, r)
	if m == nil {
		return
	}

	if !m.Next() {
		render.Error(w, http.StatusConflict, "Fill in the required fields before continuing.")
		return
	}
	h.save(w, r, id, m)
}

// Prev steps backward.
func (h *Wizard) Prev(w http.ResponseWriter, r *http.Request) {
	id, m := h.load(w, r)
	if m == nil {
		return
	}
	m.Prev()
	h.save(w, r, id, m)
}

// Jump moves directly to a step, clamped to the mode's range.
func (h *Wizard) Jump(w http.ResponseWriter, r *http.Request) {
	id, m := h.load(w, r)
	if m == nil {
		return
	}

	var req struct {
		Step int `json:"step"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	m.JumpTo(req.Step)
	h.save(w, r, id, m)
}

// Generate runs the full pipeline on a completed wizard: quota check,
// moderation, composition, LLM chain, project persistence. The wizard
// session is deleted on success.
func (h *Wizard) Generate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, m := h.load(w, r)
	if m == nil {
		return
	}
	if !m.Done {
		render.Error(w, http.StatusConflict, "Finish the wizard before generating.")
		return
	}

	var req struct {
		Kind    string `json:"kind"`
		Variant string `json:"variant"`
		Name    string `json:"name"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, ok := projectKind(req.Kind)
	if !ok {
		render.Error(w, http.StatusUnprocessableEntity, "Unknown project kind.")
		return
	}
	variant, ok := composerVariant(req.Variant)
	if !ok {
		render.Error(w, http.StatusUnprocessableEntity, "Unknown composer variant.")
		return
	}

	project, err := h.gen.Generate(r.Context(), sess.UserID, kind, variant, req.Name, m.Input)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	if err := h.machines.Delete(r.Context(), sess.UserID, id); err != nil {
		slog.Warn("wizard cleanup failed", "wizard_id", id, "error", err)
	}
	render.JSON(w, http.StatusCreated, project)
}

// projectKind parses the request kind; empty defaults to saas.
func projectKind(s string) (models.ProjectKind, bool) {
	switch models.ProjectKind(s) {
	case models.ProjectSaaS, models.ProjectLanding, models.ProjectFeature:
		return models.ProjectKind(s), true
	}
	if s == "" {
		return models.ProjectSaaS, true
	}
	return "", false
}

// composerVariant parses the request variant; empty defaults to agent.
func composerVariant(s string) (composer.Variant, bool) {
	switch composer.Variant(s) {
	case composer.VariantClassic, composer.VariantStructured, composer.VariantAgent:
		return composer.Variant(s), true
	}
	if s == "" {
		return composer.VariantAgent, true
	}
	return "", false
}

// writeGenerationError maps pipeline failures to response codes: quota
// exhaustion asks for an upgrade, moderation rejections carry the
// flagged categories, and everything else is an upstream failure.
func writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plan.ErrQuotaExceeded):
		render.Error(w, http.StatusPaymentRequired, "Monthly generation limit reached. Upgrade your plan to continue.")
	case errors.Is(err, ErrUnsafePrompt):
		render.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		render.Internal(w, err)
	}
}
