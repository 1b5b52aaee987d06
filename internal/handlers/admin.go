// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptforge/internal/middleware"
	"promptforge/internal/plan"
	"promptforge/internal/render"
	"promptforge/internal/store"
)

// Admin groups the operator endpoints: user management and plan
// overrides. The routes sit behind RequireAdmin.
type Admin struct {
	users *store.UserStore
}

// NewAdmin creates the admin handler group.
func NewAdmin(users *store.UserStore) *Admin {
	return &Admin{users: users}
}

// UsersList returns all accounts.
func (h *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"users": users})
}

// UserSetPlan overrides a user's plan tier, for support cases where a
// gateway webhook was missed.
func (h *Admin) UserSetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		Tier string `json:"tier"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !plan.Valid(plan.Tier(req.Tier)) {
		render.Error(w, http.StatusUnprocessableEntity, "Unknown plan tier.")
		return
	}

	if err := h.users.UpdatePlan(id, plan.Tier(req.Tier)); err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"tier": req.Tier})
}

// UserResetTwoFA clears a user's TOTP enrolment so they can re-enrol
// after losing their device.
func (h *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.users.ResetTOTP(id); err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UserDelete removes an account. Self-deletion is blocked so the last
// admin cannot lock everyone out by accident.
func (h *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if id == sess.UserID {
		render.Error(w, http.StatusConflict, "You cannot delete your own account here.")
		return
	}

	if err := h.users.Delete(id); err != nil {
		render.Internal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
