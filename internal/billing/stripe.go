// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// stripeGateway implements Gateway against the Stripe REST API.
// Stripe takes form-encoded requests and returns JSON.
type stripeGateway struct {
	apiKey        string
	webhookSecret string
	baseURL       string
}

func newStripeGateway(apiKey, webhookSecret string) *stripeGateway {
	return &stripeGateway{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		baseURL:       "https://api.stripe.com/v1",
	}
}

func (g *stripeGateway) Name() string { return "stripe" }

// postForm sends a form-encoded POST and decodes the JSON response into out.
func (g *stripeGateway) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError("stripe", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("stripe decode response: %w", err)
	}
	return nil
}

func (g *stripeGateway) Subscribe(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	// Customer first, then the subscription referencing it.
	var customer struct {
		ID string `json:"id"`
	}
	form := url.Values{}
	form.Set("email", req.CustomerEmail)
	form.Set("name", req.CustomerName)
	if err := g.postForm(ctx, "/customers", form, &customer); err != nil {
		return nil, err
	}

	var sub struct {
		ID            string `json:"id"`
		LatestInvoice struct {
			HostedInvoiceURL string `json:"hosted_invoice_url"`
		} `json:"latest_invoice"`
	}
	form = url.Values{}
	form.Set("customer", customer.ID)
	form.Set("items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("items[0][price_data][recurring][interval]", "month")
	form.Set("items[0][price_data][product_data][name]", "PromptForge "+string(req.Tier))
	form.Set("expand[]", "latest_invoice")
	if err := g.postForm(ctx, "/subscriptions", form, &sub); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		GatewayCustomerID: customer.ID,
		GatewaySubID:      sub.ID,
		PaymentURL:        sub.LatestInvoice.HostedInvoiceURL,
	}, nil
}

func (g *stripeGateway) Charge(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	var intent struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("receipt_email", req.CustomerEmail)
	if err := g.postForm(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		GatewayChargeID: intent.ID,
		// The SPA completes the intent client-side with this secret.
		PaymentURL: intent.ClientSecret,
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the
// event payload.
func (g *stripeGateway) ParseWebhook(r *http.Request) (*Event, error) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("stripe webhook read: %w", err)
	}

	if g.webhookSecret != "" {
		if err := verifyStripeSignature(payload, r.Header.Get("Stripe-Signature"), g.webhookSecret); err != nil {
			return nil, err
		}
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID               string `json:"id"`
				Subscription     string `json:"subscription"`
				CurrentPeriodEnd int64  `json:"current_period_end"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("stripe webhook decode: %w", err)
	}

	obj := event.Data.Object
	var periodEnd *time.Time
	if obj.CurrentPeriodEnd > 0 {
		t := time.Unix(obj.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	switch event.Type {
	case "invoice.paid":
		return &Event{Kind: EventSubscriptionActive, GatewaySubID: obj.Subscription, PeriodEnd: periodEnd}, nil
	case "payment_intent.succeeded":
		return &Event{Kind: EventPaymentConfirmed, ChargeID: obj.ID}, nil
	case "payment_intent.payment_failed", "invoice.payment_failed":
		return &Event{Kind: EventPaymentFailed, ChargeID: obj.ID, GatewaySubID: obj.Subscription}, nil
	case "customer.subscription.deleted":
		return &Event{Kind: EventSubscriptionCanceled, GatewaySubID: obj.ID}, nil
	default:
		return &Event{Kind: EventIgnored}, nil
	}
}

// verifyStripeSignature checks the v1 HMAC scheme from the
// Stripe-Signature header: "t=<ts>,v1=<hex hmac of '<ts>.<payload>'>".
func verifyStripeSignature(payload []byte, header, secret string) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("stripe webhook: malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("stripe webhook: signature mismatch")
	}
	return nil
}
