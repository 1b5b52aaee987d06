// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/plan"
	"promptforge/internal/render"
	"promptforge/internal/store"
)

// usageHistoryMonths caps the account usage history response.
const usageHistoryMonths = 12

// Account exposes the signed-in user's profile, plan, usage, and
// payment history.
type Account struct {
	users         *store.UserStore
	usage         *store.UsageStore
	payments      *store.PaymentStore
	subscriptions *store.SubscriptionStore
	limits        plan.Limits
}

// NewAccount creates the account handler group.
func NewAccount(users *store.UserStore, usage *store.UsageStore, payments *store.PaymentStore, subscriptions *store.SubscriptionStore, limits plan.Limits) *Account {
	return &Account{
		users:         users,
		usage:         usage,
		payments:      payments,
		subscriptions: subscriptions,
		limits:        limits,
	}
}

// Me returns the profile plus the current month's quota position and
// the active subscription, if any.
func (h *Account) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	month := models.MonthKey(time.Now())
	used, err := h.usage.CountForMonth(user.ID, month)
	if err != nil {
		render.Internal(w, err)
		return
	}

	sub, err := h.subscriptions.FindActiveByUser(user.ID)
	if err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"subscription": sub,
		"usage": map[string]any{
			"month": month,
			"used":  used,
			"limit": h.limits.Limit(user.PlanTier),
		},
	})
}

// UpdateProfile changes the display name.
func (h *Account) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.users.UpdateProfile(sess.UserID, req.DisplayName); err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"display_name": req.DisplayName})
}

// UsageHistory returns monthly generation counts, newest first.
func (h *Account) UsageHistory(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	history, err := h.usage.History(sess.UserID, usageHistoryMonths)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"history": history})
}

// Payments returns the caller's payment records, newest first.
func (h *Account) Payments(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	payments, err := h.payments.ListByUser(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{"payments": payments})
}
