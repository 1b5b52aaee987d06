// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// mercadoPagoGateway implements Gateway against the Mercado Pago REST API.
type mercadoPagoGateway struct {
	accessToken string
	baseURL     string
}

func newMercadoPagoGateway(accessToken string) *mercadoPagoGateway {
	return &mercadoPagoGateway{
		accessToken: accessToken,
		baseURL:     "https://api.mercadopago.com",
	}
}

func (g *mercadoPagoGateway) Name() string { return "mercadopago" }

func (g *mercadoPagoGateway) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("mercadopago marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mercadopago request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError("mercadopago", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("mercadopago decode response: %w", err)
	}
	return nil
}

func (g *mercadoPagoGateway) Subscribe(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	var sub struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	err := g.postJSON(ctx, "/preapproval", map[string]any{
		"reason":       "PromptForge " + string(req.Tier),
		"payer_email":  req.CustomerEmail,
		"external_reference": req.CustomerEmail,
		"auto_recurring": map[string]any{
			"frequency":          1,
			"frequency_type":     "months",
			"transaction_amount": float64(req.AmountCents) / 100,
			"currency_id":        req.Currency,
		},
	}, &sub)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		GatewaySubID: sub.ID,
		PaymentURL:   sub.InitPoint,
	}, nil
}

func (g *mercadoPagoGateway) Charge(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	var payment struct {
		ID                  json.Number `json:"id"`
		PointOfInteraction  struct {
			TransactionData struct {
				QRCode    string `json:"qr_code"`
				TicketURL string `json:"ticket_url"`
			} `json:"transaction_data"`
		} `json:"point_of_interaction"`
	}
	err := g.postJSON(ctx, "/v1/payments", map[string]any{
		"transaction_amount": float64(req.AmountCents) / 100,
		"description":        "PromptForge " + string(req.Tier),
		"payment_method_id":  mpPaymentMethod(req.Method),
		"payer":              map[string]string{"email": req.CustomerEmail},
	}, &payment)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		GatewayChargeID: payment.ID.String(),
		PaymentURL:      payment.PointOfInteraction.TransactionData.TicketURL,
		PixCode:         payment.PointOfInteraction.TransactionData.QRCode,
	}, nil
}

func (g *mercadoPagoGateway) ParseWebhook(r *http.Request) (*Event, error) {
	var hook struct {
		Action string `json:"action"`
		Type   string `json:"type"`
		Data   struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&hook); err != nil {
		return nil, fmt.Errorf("mercadopago webhook decode: %w", err)
	}

	switch {
	case hook.Type == "payment" && hook.Action == "payment.updated":
		return &Event{Kind: EventPaymentConfirmed, ChargeID: hook.Data.ID.String()}, nil
	case hook.Type == "subscription_preapproval" && hook.Action == "updated":
		end := time.Now().AddDate(0, 1, 0)
		return &Event{Kind: EventSubscriptionActive, GatewaySubID: hook.Data.ID.String(), PeriodEnd: &end}, nil
	case hook.Type == "subscription_preapproval" && hook.Action == "cancelled":
		return &Event{Kind: EventSubscriptionCanceled, GatewaySubID: hook.Data.ID.String()}, nil
	default:
		return &Event{Kind: EventIgnored}, nil
	}
}

// mpPaymentMethod maps our method names onto Mercado Pago method IDs.
func mpPaymentMethod(method string) string {
	if method == "pix" {
		return "pix"
	}
	return "master"
}
