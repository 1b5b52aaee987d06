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

// asaasGateway implements Gateway against the Asaas REST API, the
// Brazilian gateway used for PIX and boleto-friendly checkouts.
type asaasGateway struct {
	apiKey  string
	baseURL string
}

func newAsaasGateway(apiKey string) *asaasGateway {
	return &asaasGateway{
		apiKey:  apiKey,
		baseURL: "https://api.asaas.com/v3",
	}
}

func (g *asaasGateway) Name() string { return "asaas" }

func (g *asaasGateway) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("asaas marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("asaas request: %w", err)
	}
	req.Header.Set("access_token", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("asaas read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError("asaas", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("asaas decode response: %w", err)
	}
	return nil
}

func (g *asaasGateway) createCustomer(ctx context.Context, req CheckoutRequest) (string, error) {
	var customer struct {
		ID string `json:"id"`
	}
	err := g.postJSON(ctx, "/customers", map[string]string{
		"name":  req.CustomerName,
		"email": req.CustomerEmail,
	}, &customer)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *asaasGateway) Subscribe(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	customerID, err := g.createCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	var sub struct {
		ID string `json:"id"`
	}
	err = g.postJSON(ctx, "/subscriptions", map[string]any{
		"customer":    customerID,
		"billingType": billingType(req.Method),
		"value":       float64(req.AmountCents) / 100,
		"cycle":       "MONTHLY",
		"description": "PromptForge " + string(req.Tier),
		"nextDueDate": time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	}, &sub)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		GatewayCustomerID: customerID,
		GatewaySubID:      sub.ID,
	}, nil
}

func (g *asaasGateway) Charge(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	customerID, err := g.createCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	var charge struct {
		ID         string `json:"id"`
		InvoiceURL string `json:"invoiceUrl"`
	}
	err = g.postJSON(ctx, "/payments", map[string]any{
		"customer":    customerID,
		"billingType": billingType(req.Method),
		"value":       float64(req.AmountCents) / 100,
		"dueDate":     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	}, &charge)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		GatewayCustomerID: customerID,
		GatewayChargeID:   charge.ID,
		PaymentURL:        charge.InvoiceURL,
	}

	// PIX charges get a copy-paste payload from a follow-up endpoint.
	if req.Method == "pix" {
		var pix struct {
			Payload string `json:"payload"`
		}
		if err := g.postJSON(ctx, "/payments/"+charge.ID+"/pixQrCode", map[string]string{}, &pix); err == nil {
			result.PixCode = pix.Payload
		}
	}

	return result, nil
}

func (g *asaasGateway) ParseWebhook(r *http.Request) (*Event, error) {
	var hook struct {
		Event   string `json:"event"`
		Payment struct {
			ID           string `json:"id"`
			Subscription string `json:"subscription"`
		} `json:"payment"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&hook); err != nil {
		return nil, fmt.Errorf("asaas webhook decode: %w", err)
	}

	switch hook.Event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED":
		if hook.Payment.Subscription != "" {
			end := time.Now().AddDate(0, 1, 0)
			return &Event{Kind: EventSubscriptionActive, GatewaySubID: hook.Payment.Subscription, PeriodEnd: &end}, nil
		}
		return &Event{Kind: EventPaymentConfirmed, ChargeID: hook.Payment.ID}, nil
	case "PAYMENT_OVERDUE", "PAYMENT_REFUSED":
		return &Event{Kind: EventPaymentFailed, ChargeID: hook.Payment.ID, GatewaySubID: hook.Payment.Subscription}, nil
	case "SUBSCRIPTION_DELETED":
		return &Event{Kind: EventSubscriptionCanceled, GatewaySubID: hook.Payment.Subscription}, nil
	default:
		return &Event{Kind: EventIgnored}, nil
	}
}

// billingType maps our method names onto Asaas billing types.
func billingType(method string) string {
	if method == "pix" {
		return "PIX"
	}
	return "CREDIT_CARD"
}
