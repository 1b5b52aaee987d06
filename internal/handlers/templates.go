// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/render"
	"promptforge/internal/store"
	"promptforge/internal/templates"
)

// Templates exposes user-saved prompt templates with revision history.
// Updates bump the version and archive the previous body.
type Templates struct {
	store *store.PromptTemplateStore
	svc   *templates.Service
}

// NewTemplates creates the prompt-template handler group.
func NewTemplates(store *store.PromptTemplateStore, svc *templates.Service) *Templates {
	return &Templates{store: store, svc: svc}
}

// load fetches the template in {id} and enforces ownership. Returns nil
// when a response was already written.
func (h *Templates) load(w http.ResponseWriter, r *http.Request) *models.PromptTemplate {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "template not found")
		return nil
	}

	t, err := h.store.FindByID(id)
	if err != nil {
		render.Internal(w, err)
		return nil
	}
	if t == nil || t.OwnerID != sess.UserID {
		render.Error(w, http.StatusNotFound, "template not found")
		return nil
	}
	return t
}

// List returns the caller's templates, alphabetical by name.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	list, err := h.store.ListByOwner(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"templates": list})
}

// Create saves a new template at version 1.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplate(req.Name, req.Content); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	t, err := h.store.Create(&models.PromptTemplate{
		OwnerID: sess.UserID,
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, t)
}

// Get returns one template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	t := h.load(w, r)
	if t == nil {
		return
	}
	render.JSON(w, http.StatusOK, t)
}

// Update replaces name and content, bumping the version and archiving
// the previous body as a revision.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	t := h.load(w, r)
	if t == nil {
		return
	}

	var req struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplate(req.Name, req.Content); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	updated, err := h.store.Update(t.ID, req.Name, req.Content, sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	h.svc.Invalidate(t.ID)
	render.JSON(w, http.StatusOK, updated)
}

// Delete removes a template and its revisions.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	t := h.load(w, r)
	if t == nil {
		return
	}

	if err := h.store.Delete(t.ID); err != nil {
		render.Internal(w, err)
		return
	}
	h.svc.Invalidate(t.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Revisions lists archived bodies, newest version first.
func (h *Templates) Revisions(w http.ResponseWriter, r *http.Request) {
	t := h.load(w, r)
	if t == nil {
		return
	}

	revisions, err := h.store.ListRevisions(t.ID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"revisions": revisions})
}

// Variables lists the {{name}} placeholders the template declares.
func (h *Templates) Variables(w http.ResponseWriter, r *http.Request) {
	t := h.load(w, r)
	if t == nil {
		return
	}

	names, err := h.svc.Variables(t.ID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"variables": names})
}

// Render fills the template's placeholders with the provided values.
func (h *Templates) Render(w http.ResponseWriter, r *http.Request) {
	t := h.load(w, r)
	if t == nil {
		return
	}

	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	out, found, err := h.svc.Render(t.ID, req.Values)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if !found {
		render.Error(w, http.StatusNotFound, "template not found")
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"rendered": out})
}
