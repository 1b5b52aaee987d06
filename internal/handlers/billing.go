// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"promptforge/internal/billing"
	"promptforge/internal/mailer"
	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/plan"
	"promptforge/internal/render"
	"promptforge/internal/store"
)

// Monthly prices in cents. The gateway decides the currency: Brazilian
// gateways charge in BRL, everything else in USD.
var tierPriceCents = map[plan.Tier]int64{
	plan.TierStarter: 1900,
	plan.TierPro:     4900,
}

// Billing exposes checkout and the gateway webhook. Checkout creates a
// pending subscription or payment row; the webhook flips it and adjusts
// the user's plan.
type Billing struct {
	gateway       billing.Gateway
	subscriptions *store.SubscriptionStore
	payments      *store.PaymentStore
	users         *store.UserStore
	mail          *mailer.Mailer
}

// NewBilling creates the billing handler group.
func NewBilling(gateway billing.Gateway, subscriptions *store.SubscriptionStore, payments *store.PaymentStore, users *store.UserStore, mail *mailer.Mailer) *Billing {
	return &Billing{
		gateway:       gateway,
		subscriptions: subscriptions,
		payments:      payments,
		users:         users,
		mail:          mail,
	}
}

// currency returns the checkout currency for the active gateway.
func (h *Billing) currency() string {
	switch h.gateway.Name() {
	case "asaas", "mercadopago":
		return "brl"
	}
	return "usd"
}

// Checkout starts an upgrade: a recurring subscription by default, or a
// single PIX/card charge when recurring is false. The response carries
// whatever the gateway needs the client to do next (hosted checkout
// URL, PIX copy-paste code).
func (h *Billing) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Tier      string `json:"tier"`
		Method    string `json:"method"` // "card" (default) or "pix"
		Recurring *bool  `json:"recurring"`
	}
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tier := plan.Tier(req.Tier)
	price, ok := tierPriceCents[tier]
	if !ok {
		render.Error(w, http.StatusUnprocessableEntity, "Choose the starter or pro plan.")
		return
	}

	// Compare against the user row, not the session snapshot: the tier
	// may have changed through a webhook since login.
	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		render.Internal(w, err)
		return
	}
	if user == nil {
		render.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if tier == user.PlanTier {
		render.Error(w, http.StatusConflict, "You are already on this plan.")
		return
	}

	method := req.Method
	if method == "" {
		method = "card"
	}
	if method != "card" && method != "pix" {
		render.Error(w, http.StatusUnprocessableEntity, "Payment method must be card or pix.")
		return
	}

	checkout := billing.CheckoutRequest{
		CustomerEmail: user.Email,
		CustomerName:  user.DisplayName,
		Tier:          tier,
		AmountCents:   price,
		Currency:      h.currency(),
		Method:        method,
	}

	recurring := req.Recurring == nil || *req.Recurring
	if recurring {
		h.checkoutSubscription(w, r, sess.UserID, checkout)
		return
	}
	h.checkoutCharge(w, r, sess.UserID, checkout)
}

func (h *Billing) checkoutSubscription(w http.ResponseWriter, r *http.Request, userID uuid.UUID, req billing.CheckoutRequest) {
	result, err := h.gateway.Subscribe(r.Context(), req)
	if err != nil {
		slog.Error("gateway subscribe failed", "gateway", h.gateway.Name(), "error", err)
		render.Error(w, http.StatusBadGateway, "The payment provider rejected the request. Try again later.")
		return
	}

	sub, err := h.subscriptions.Create(&models.Subscription{
		UserID:            userID,
		Gateway:           h.gateway.Name(),
		GatewayCustomerID: result.GatewayCustomerID,
		GatewaySubID:      result.GatewaySubID,
		Tier:              req.Tier,
		Status:            models.SubscriptionPending,
	})
	if err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"subscription": sub,
		"payment_url":  result.PaymentURL,
		"pix_code":     result.PixCode,
	})
}

func (h *Billing) checkoutCharge(w http.ResponseWriter, r *http.Request, userID uuid.UUID, req billing.CheckoutRequest) {
	result, err := h.gateway.Charge(r.Context(), req)
	if err != nil {
		slog.Error("gateway charge failed", "gateway", h.gateway.Name(), "error", err)
		render.Error(w, http.StatusBadGateway, "The payment provider rejected the request. Try again later.")
		return
	}

	payment, err := h.payments.Create(&models.Payment{
		UserID:          userID,
		Gateway:         h.gateway.Name(),
		Method:          models.PaymentMethod(req.Method),
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		Status:          models.PaymentPending,
		GatewayChargeID: result.GatewayChargeID,
	})
	if err != nil {
		render.Internal(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"payment":     payment,
		"payment_url": result.PaymentURL,
		"pix_code":    result.PixCode,
	})
}

// Webhook receives gateway callbacks. Unknown references are logged and
// acknowledged — returning an error would only trigger gateway retries
// for events this deployment will never match.
func (h *Billing) Webhook(w http.ResponseWriter, r *http.Request) {
	event, err := h.gateway.ParseWebhook(r)
	if err != nil {
		slog.Warn("webhook rejected", "gateway", h.gateway.Name(), "error", err)
		render.Error(w, http.StatusBadRequest, "invalid webhook")
		return
	}

	switch event.Kind {
	case billing.EventSubscriptionActive:
		h.activateSubscription(event)
	case billing.EventSubscriptionCanceled:
		h.cancelSubscription(event)
	case billing.EventPaymentConfirmed:
		h.settlePayment(event, models.PaymentConfirmed)
	case billing.EventPaymentFailed:
		h.settlePayment(event, models.PaymentFailed)
	}

	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Billing) activateSubscription(event *billing.Event) {
	sub, err := h.subscriptions.FindByGatewayID(h.gateway.Name(), event.GatewaySubID)
	if err != nil || sub == nil {
		slog.Warn("webhook for unknown subscription", "gateway", h.gateway.Name(), "sub_id", event.GatewaySubID, "error", err)
		return
	}

	if err := h.subscriptions.UpdateStatus(sub.ID, models.SubscriptionActive, event.PeriodEnd); err != nil {
		slog.Error("subscription activate failed", "id", sub.ID, "error", err)
		return
	}
	if err := h.users.UpdatePlan(sub.UserID, sub.Tier); err != nil {
		slog.Error("plan upgrade failed", "user_id", sub.UserID, "tier", sub.Tier, "error", err)
		return
	}

	if user, err := h.users.FindByID(sub.UserID); err == nil && user != nil {
		h.mail.SubscriptionActive(user.Email, string(sub.Tier))
	}
	slog.Info("subscription activated", "user_id", sub.UserID, "tier", sub.Tier)
}

func (h *Billing) cancelSubscription(event *billing.Event) {
	sub, err := h.subscriptions.FindByGatewayID(h.gateway.Name(), event.GatewaySubID)
	if err != nil || sub == nil {
		slog.Warn("webhook for unknown subscription", "gateway", h.gateway.Name(), "sub_id", event.GatewaySubID, "error", err)
		return
	}

	if err := h.subscriptions.UpdateStatus(sub.ID, models.SubscriptionCanceled, nil); err != nil {
		slog.Error("subscription cancel failed", "id", sub.ID, "error", err)
		return
	}
	// Cancellation drops the user back to the free tier.
	if err := h.users.UpdatePlan(sub.UserID, plan.TierFree); err != nil {
		slog.Error("plan downgrade failed", "user_id", sub.UserID, "error", err)
	}
	slog.Info("subscription canceled", "user_id", sub.UserID)
}

func (h *Billing) settlePayment(event *billing.Event, status models.PaymentStatus) {
	payment, err := h.payments.FindByGatewayChargeID(h.gateway.Name(), event.ChargeID)
	if err != nil || payment == nil {
		slog.Warn("webhook for unknown payment", "gateway", h.gateway.Name(), "charge_id", event.ChargeID, "error", err)
		return
	}

	if err := h.payments.UpdateStatus(payment.ID, status); err != nil {
		slog.Error("payment status update failed", "id", payment.ID, "error", err)
		return
	}

	if status == models.PaymentConfirmed {
		if user, err := h.users.FindByID(payment.UserID); err == nil && user != nil {
			h.mail.PaymentConfirmed(user.Email, payment.AmountCents, payment.Currency)
		}
	}
	slog.Info("payment settled", "id", payment.ID, "status", status)
}
