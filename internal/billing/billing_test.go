// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptforge/internal/plan"
)

func checkoutReq(method string) CheckoutRequest {
	return CheckoutRequest{
		CustomerEmail: "buyer@test.local",
		CustomerName:  "Buyer",
		Tier:          plan.TierStarter,
		AmountCents:   900,
		Currency:      "USD",
		Method:        method,
	}
}

func TestNewFallsBackToDemo(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		wantName string
	}{
		{"unknown name", "paypal", "demo"},
		{"stripe without key", "stripe", "demo"},
		{"empty name", "", "demo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.gateway, "", "", "", "")
			if g.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", g.Name(), tt.wantName)
			}
		})
	}

	t.Run("stripe with key", func(t *testing.T) {
		g := New("stripe", "sk_test", "whsec", "", "")
		if g.Name() != "stripe" {
			t.Errorf("Name() = %q, want stripe", g.Name())
		}
	})
}

func TestStripeSubscribe(t *testing.T) {
	var gotAuth string
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/customers":
			fmt.Fprint(w, `{"id":"cus_123"}`)
		case "/subscriptions":
			r.ParseForm()
			if got := r.PostForm.Get("customer"); got != "cus_123" {
				t.Errorf("subscription customer: got %q", got)
			}
			fmt.Fprint(w, `{"id":"sub_456","latest_invoice":{"hosted_invoice_url":"https://pay.stripe.test/x"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	g := &stripeGateway{apiKey: "sk_test", baseURL: server.URL}
	result, err := g.Subscribe(context.Background(), checkoutReq("card"))
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(calls))
	}
	if result.GatewayCustomerID != "cus_123" {
		t.Errorf("customer ID: got %q", result.GatewayCustomerID)
	}
	if result.GatewaySubID != "sub_456" {
		t.Errorf("sub ID: got %q", result.GatewaySubID)
	}
	if result.PaymentURL != "https://pay.stripe.test/x" {
		t.Errorf("payment URL: got %q", result.PaymentURL)
	}
}

func TestStripeChargeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"card declined"}}`)
	}))
	defer server.Close()

	g := &stripeGateway{apiKey: "sk_test", baseURL: server.URL}
	_, err := g.Charge(context.Background(), checkoutReq("card"))
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "402") {
		t.Errorf("error should carry status code, got: %v", err)
	}
}

func TestStripeWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	sign := func(body []byte, ts string) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(ts))
		mac.Write([]byte("."))
		mac.Write(body)
		return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
	}

	g := &stripeGateway{apiKey: "sk", webhookSecret: secret}

	t.Run("valid signature", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
		r.Header.Set("Stripe-Signature", sign(payload, "1700000000"))

		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook: %v", err)
		}
		if event.Kind != EventPaymentConfirmed {
			t.Errorf("kind: got %q, want %q", event.Kind, EventPaymentConfirmed)
		}
		if event.ChargeID != "pi_1" {
			t.Errorf("charge ID: got %q", event.ChargeID)
		}
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"type":"evil"}`))
		r.Header.Set("Stripe-Signature", sign(payload, "1700000000"))

		if _, err := g.ParseWebhook(r); err == nil {
			t.Error("expected signature mismatch error")
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
		if _, err := g.ParseWebhook(r); err == nil {
			t.Error("expected error for missing signature header")
		}
	})
}

func TestStripeWebhookEvents(t *testing.T) {
	g := &stripeGateway{apiKey: "sk"} // no webhook secret, signature skipped

	tests := []struct {
		body string
		want EventKind
	}{
		{`{"type":"invoice.paid","data":{"object":{"subscription":"sub_1","current_period_end":1700000000}}}`, EventSubscriptionActive},
		{`{"type":"customer.subscription.deleted","data":{"object":{"id":"sub_1"}}}`, EventSubscriptionCanceled},
		{`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9"}}}`, EventPaymentFailed},
		{`{"type":"charge.refund.updated","data":{"object":{}}}`, EventIgnored},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(tt.body))
		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook(%s): %v", tt.body, err)
		}
		if event.Kind != tt.want {
			t.Errorf("kind: got %q, want %q", event.Kind, tt.want)
		}
	}

	t.Run("period end parsed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe",
			strings.NewReader(`{"type":"invoice.paid","data":{"object":{"subscription":"sub_1","current_period_end":1700000000}}}`))
		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook: %v", err)
		}
		if event.PeriodEnd == nil {
			t.Fatal("expected period end")
		}
		if event.PeriodEnd.Unix() != 1700000000 {
			t.Errorf("period end: got %d", event.PeriodEnd.Unix())
		}
	})
}

func TestAsaasChargePix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("access_token"); got != "asaas_key" {
			t.Errorf("access_token header: got %q", got)
		}
		switch {
		case r.URL.Path == "/customers":
			fmt.Fprint(w, `{"id":"cus_as1"}`)
		case r.URL.Path == "/payments":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["billingType"] != "PIX" {
				t.Errorf("billingType: got %v", body["billingType"])
			}
			fmt.Fprint(w, `{"id":"pay_as1","invoiceUrl":"https://asaas.test/inv"}`)
		case strings.HasSuffix(r.URL.Path, "/pixQrCode"):
			fmt.Fprint(w, `{"payload":"00020126PIXDATA"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	g := &asaasGateway{apiKey: "asaas_key", baseURL: server.URL}
	result, err := g.Charge(context.Background(), checkoutReq("pix"))
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if result.GatewayChargeID != "pay_as1" {
		t.Errorf("charge ID: got %q", result.GatewayChargeID)
	}
	if result.PixCode != "00020126PIXDATA" {
		t.Errorf("pix code: got %q", result.PixCode)
	}
}

func TestAsaasWebhook(t *testing.T) {
	g := &asaasGateway{apiKey: "k"}

	t.Run("one-time payment confirmed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/asaas",
			strings.NewReader(`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1"}}`))
		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook: %v", err)
		}
		if event.Kind != EventPaymentConfirmed || event.ChargeID != "pay_1" {
			t.Errorf("got %+v", event)
		}
	})

	t.Run("subscription payment activates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/asaas",
			strings.NewReader(`{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_2","subscription":"sub_as1"}}`))
		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook: %v", err)
		}
		if event.Kind != EventSubscriptionActive || event.GatewaySubID != "sub_as1" {
			t.Errorf("got %+v", event)
		}
		if event.PeriodEnd == nil {
			t.Error("expected period end for subscription activation")
		}
	})
}

func TestMercadoPagoCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer mp_token" {
			t.Errorf("auth header: got %q", got)
		}
		if r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":12345,"point_of_interaction":{"transaction_data":{"qr_code":"PIXQR","ticket_url":"https://mp.test/t"}}}`)
	}))
	defer server.Close()

	g := &mercadoPagoGateway{accessToken: "mp_token", baseURL: server.URL}
	result, err := g.Charge(context.Background(), checkoutReq("pix"))
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if result.GatewayChargeID != "12345" {
		t.Errorf("charge ID: got %q", result.GatewayChargeID)
	}
	if result.PixCode != "PIXQR" {
		t.Errorf("pix code: got %q", result.PixCode)
	}
}

func TestDemoGateway(t *testing.T) {
	g := NewDemoGateway()

	sub, err := g.Subscribe(context.Background(), checkoutReq("card"))
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.GatewaySubID == "" || sub.GatewayCustomerID == "" {
		t.Error("expected generated IDs")
	}

	charge, err := g.Charge(context.Background(), checkoutReq("pix"))
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if charge.PixCode == "" {
		t.Error("expected pix code for pix charge")
	}

	// IDs are unique across calls.
	charge2, _ := g.Charge(context.Background(), checkoutReq("card"))
	if charge2.GatewayChargeID == charge.GatewayChargeID {
		t.Error("expected unique charge IDs")
	}

	t.Run("webhook kinds", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhooks/demo",
			strings.NewReader(`{"kind":"subscription_active","gateway_sub_id":"demo_sub_1"}`))
		event, err := g.ParseWebhook(r)
		if err != nil {
			t.Fatalf("ParseWebhook: %v", err)
		}
		if event.Kind != EventSubscriptionActive || event.GatewaySubID != "demo_sub_1" {
			t.Errorf("got %+v", event)
		}
	})
}
