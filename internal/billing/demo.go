// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DemoGateway fakes a payment provider for development and tests. Every
// checkout succeeds instantly and webhooks are a plain JSON body with a
// "kind" field, so the full billing flow can be exercised locally.
type DemoGateway struct {
	counter atomic.Int64
}

// NewDemoGateway creates the development gateway.
func NewDemoGateway() *DemoGateway {
	return &DemoGateway{}
}

func (g *DemoGateway) Name() string { return "demo" }

func (g *DemoGateway) nextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().Unix(), g.counter.Add(1))
}

func (g *DemoGateway) Subscribe(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	return &CheckoutResult{
		GatewayCustomerID: g.nextID("demo_cus"),
		GatewaySubID:      g.nextID("demo_sub"),
		PaymentURL:        "https://demo.promptforge.local/pay",
	}, nil
}

func (g *DemoGateway) Charge(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	result := &CheckoutResult{
		GatewayCustomerID: g.nextID("demo_cus"),
		GatewayChargeID:   g.nextID("demo_ch"),
		PaymentURL:        "https://demo.promptforge.local/pay",
	}
	if req.Method == "pix" {
		result.PixCode = "00020126DEMO-PIX-PAYLOAD6304ABCD"
	}
	return result, nil
}

func (g *DemoGateway) ParseWebhook(r *http.Request) (*Event, error) {
	var hook struct {
		Kind         string `json:"kind"`
		GatewaySubID string `json:"gateway_sub_id"`
		ChargeID     string `json:"charge_id"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&hook); err != nil {
		return nil, fmt.Errorf("demo webhook decode: %w", err)
	}

	switch hook.Kind {
	case "payment_confirmed":
		return &Event{Kind: EventPaymentConfirmed, ChargeID: hook.ChargeID}, nil
	case "payment_failed":
		return &Event{Kind: EventPaymentFailed, ChargeID: hook.ChargeID}, nil
	case "subscription_active":
		end := time.Now().AddDate(0, 1, 0)
		return &Event{Kind: EventSubscriptionActive, GatewaySubID: hook.GatewaySubID, PeriodEnd: &end}, nil
	case "subscription_canceled":
		return &Event{Kind: EventSubscriptionCanceled, GatewaySubID: hook.GatewaySubID}, nil
	default:
		return &Event{Kind: EventIgnored}, nil
	}
}
