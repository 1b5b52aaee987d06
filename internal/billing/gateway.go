// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package billing integrates payment gateways for subscriptions and
// one-time charges. Each gateway is a thin JSON-over-HTTP client behind
// a common interface; webhooks are normalized into Event values so the
// handler layer stays gateway-agnostic.
package billing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"promptforge/internal/plan"
)

// CheckoutRequest describes what the user is buying.
type CheckoutRequest struct {
	CustomerEmail string
	CustomerName  string
	Tier          plan.Tier
	AmountCents   int64
	Currency      string
	Method        string // "card" or "pix", where the gateway supports it
}

// CheckoutResult is what the frontend needs to complete payment.
type CheckoutResult struct {
	GatewayCustomerID string
	GatewaySubID      string
	GatewayChargeID   string
	// PaymentURL is a hosted checkout or PIX QR link, when provided.
	PaymentURL string
	// PixCode is the copy-paste PIX payload for Brazilian gateways.
	PixCode string
}

// EventKind classifies a normalized webhook event.
type EventKind string

const (
	EventPaymentConfirmed     EventKind = "payment_confirmed"
	EventPaymentFailed        EventKind = "payment_failed"
	EventSubscriptionActive   EventKind = "subscription_active"
	EventSubscriptionCanceled EventKind = "subscription_canceled"
	EventIgnored              EventKind = "ignored"
)

// Event is a gateway webhook reduced to what the app cares about.
type Event struct {
	Kind         EventKind
	GatewaySubID string
	ChargeID     string
	PeriodEnd    *time.Time
}

// Gateway abstracts a payment provider. Implementations wrap the
// provider's REST API with a plain net/http client.
type Gateway interface {
	// Name returns the gateway identifier ("stripe", "asaas", ...).
	Name() string

	// Subscribe creates a customer and recurring subscription.
	Subscribe(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)

	// Charge creates a one-time payment.
	Charge(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)

	// ParseWebhook validates and normalizes an incoming webhook request.
	ParseWebhook(r *http.Request) (*Event, error)
}

// New builds the gateway named by the configuration. Unknown names and
// missing API keys fall back to the demo gateway so development never
// needs real credentials.
func New(name, stripeKey, stripeWebhookKey, asaasKey, mercadoPagoKey string) Gateway {
	switch name {
	case "stripe":
		if stripeKey != "" {
			return newStripeGateway(stripeKey, stripeWebhookKey)
		}
	case "asaas":
		if asaasKey != "" {
			return newAsaasGateway(asaasKey)
		}
	case "mercadopago":
		if mercadoPagoKey != "" {
			return newMercadoPagoGateway(mercadoPagoKey)
		}
	}
	return NewDemoGateway()
}

// httpClient is shared by all gateway implementations.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// apiError formats a non-2xx gateway response.
func apiError(gateway string, status int, body []byte) error {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return fmt.Errorf("%s api status %d: %s", gateway, status, body)
}
