// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptforge/internal/markdown"
	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/render"
	"promptforge/internal/slug"
	"promptforge/internal/storage"
	"promptforge/internal/store"
	"promptforge/internal/vars"
)

// exportURLTTL is how long an export download link stays valid.
const exportURLTTL = 24 * time.Hour

// Projects exposes the saved-generation history: listing, reworking the
// composed prompt, regeneration, and export.
type Projects struct {
	projects *store.ProjectStore
	gen      *Generator
	exports  *storage.Client // nil when no object storage is configured
}

// NewProjects creates the projects handler group.
func NewProjects(projects *store.ProjectStore, gen *Generator, exports *storage.Client) *Projects {
	return &Projects{projects: projects, gen: gen, exports: exports}
}

// load fetches the project in {id} and enforces ownership. Admins can
// read any project; everyone else sees only their own. Returns nil when
// a response was already written.
func (h *Projects) load(w http.ResponseWriter, r *http.Request) *models.Project {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "project not found")
		return nil
	}

	project, err := h.projects.FindByID(id)
	if err != nil {
		render.Internal(w, err)
		return nil
	}
	// Hide other users' projects entirely rather than admitting they exist.
	if project == nil || (project.UserID != sess.UserID && sess.Role != string(models.RoleAdmin)) {
		render.Error(w, http.StatusNotFound, "project not found")
		return nil
	}
	return project
}

// List returns the caller's projects, newest first.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	projects, err := h.projects.ListByUser(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// Get returns one project with its documents.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}
	render.JSON(w, http.StatusOK, project)
}

// Rename updates the project name.
func (h *Projects) Rename(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProjectName(req.Name); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.projects.Rename(project.ID, req.Name); err != nil {
		render.Internal(w, err)
		return
	}
	project.Name = req.Name
	render.JSON(w, http.StatusOK, project)
}

// Delete removes a project.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}

	if err := h.projects.Delete(project.ID); err != nil {
		render.Internal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Regenerate re-runs the pipeline from the stored input, overwriting the
// composed prompt and generated document. Spends one generation.
func (h *Projects) Regenerate(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}

	updated, err := h.gen.Regenerate(r.Context(), project)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, updated)
}

// Variables lists the {{name}} placeholders in the composed prompt so
// the client can offer a fill-in form.
func (h *Projects) Variables(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{
		"variables": vars.Extract(project.ComposedPrompt),
	})
}

// Fill substitutes placeholder values into the composed prompt without
// touching the stored document. Placeholders without a value stay
// verbatim.
func (h *Projects) Fill(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}

	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"filled": vars.Fill(project.ComposedPrompt, req.Values),
	})
}

// Preview renders the generated Markdown document as HTML.
func (h *Projects) Preview(w http.ResponseWriter, r *http.Request) {
	project := h.load(w, r)
	if project == nil {
		return
	}

	html, err := markdown.ToHTML(project.GeneratedDoc)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"html": html})
}

// Export uploads the generated document to object storage and returns a
// pre-signed download link. 503 when no storage is configured.
func (h *Projects) Export(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		render.Error(w, http.StatusServiceUnavailable, "Exports are not available on this deployment.")
		return
	}

	project := h.load(w, r)
	if project == nil {
		return
	}
	if project.GeneratedDoc == "" {
		render.Error(w, http.StatusConflict, "This project has no generated document yet.")
		return
	}

	key := fmt.Sprintf("exports/%s/%s-%s.md", project.UserID, slug.Generate(project.Name), project.ID)
	if err := h.exports.PutDocument(r.Context(), key, project.GeneratedDoc); err != nil {
		render.Internal(w, err)
		return
	}

	url, err := h.exports.PresignedURL(r.Context(), key, exportURLTTL)
	if err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(exportURLTTL.Seconds()),
	})
}
