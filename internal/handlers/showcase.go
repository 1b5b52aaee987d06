// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptforge/internal/cache"
	"promptforge/internal/models"
	"promptforge/internal/render"
	"promptforge/internal/store"
)

// Showcase exposes the public gallery of community-built apps. The list
// is small and read-heavy: it is served from a short-TTL Valkey cache
// and filtered in memory per request.
type Showcase struct {
	store *store.ShowcaseStore
	cache *cache.ShowcaseCache
}

// NewShowcase creates the showcase handler group.
func NewShowcase(store *store.ShowcaseStore, cache *cache.ShowcaseCache) *Showcase {
	return &Showcase{store: store, cache: cache}
}

// List returns showcase entries, most voted first. Optional query
// params: niche and platform (exact, case-insensitive), q (substring
// over name and niche).
func (h *Showcase) List(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.cache.Get(r.Context())
	if !ok {
		var err error
		entries, err = h.store.List()
		if err != nil {
			render.Internal(w, err)
			return
		}
		h.cache.Set(r.Context(), entries)
	}

	entries = filterShowcase(entries,
		r.URL.Query().Get("niche"),
		r.URL.Query().Get("platform"),
		r.URL.Query().Get("q"),
	)
	render.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// filterShowcase applies the list filters in memory.
func filterShowcase(entries []models.ShowcaseEntry, niche, platform, q string) []models.ShowcaseEntry {
	niche = strings.ToLower(strings.TrimSpace(niche))
	platform = strings.ToLower(strings.TrimSpace(platform))
	q = strings.ToLower(strings.TrimSpace(q))

	out := make([]models.ShowcaseEntry, 0, len(entries))
	for _, e := range entries {
		if niche != "" && strings.ToLower(e.Niche) != niche {
			continue
		}
		if platform != "" && strings.ToLower(e.Platform) != platform {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Niche), q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Submit adds a community entry. Requires a signed-in user.
func (h *Showcase) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Niche    string `json:"niche"`
		Platform string `json:"platform"`
		URL      string `json:"url"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateShowcase(req.Name, req.Niche, req.URL); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	entry, err := h.store.Create(&models.ShowcaseEntry{
		Name:     req.Name,
		Niche:    req.Niche,
		Platform: req.Platform,
		URL:      req.URL,
	})
	if err != nil {
		render.Internal(w, err)
		return
	}

	h.cache.Invalidate(r.Context())
	render.JSON(w, http.StatusCreated, entry)
}

// Vote bumps an entry's vote count.
func (h *Showcase) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "entry not found")
		return
	}

	if err := h.store.Vote(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			render.Error(w, http.StatusNotFound, "entry not found")
			return
		}
		render.Internal(w, err)
		return
	}

	h.cache.Invalidate(r.Context())
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete removes an entry. Admin only; the route enforces it.
func (h *Showcase) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "entry not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		render.Internal(w, err)
		return
	}

	h.cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
