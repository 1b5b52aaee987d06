// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer sends transactional email through the Resend HTTP API.
// Sends are best-effort: callers fire them in a goroutine and a failed
// email never fails the originating request.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Mailer sends email via Resend. A Mailer with an empty API key is a
// no-op, so development environments work without credentials.
type Mailer struct {
	apiKey  string
	sender  string
	baseURL string
	client  *http.Client
}

// New creates a Mailer. sender is the From address, e.g.
// "PromptForge <noreply@promptforge.app>".
func New(apiKey, sender string) *Mailer {
	return &Mailer{
		apiKey:  apiKey,
		sender:  sender,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the mailer has credentials to actually send.
func (m *Mailer) Enabled() bool {
	return m.apiKey != ""
}

// Send delivers one email. Returns an error on API failure; callers that
// don't care use SendAsync instead.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if !m.Enabled() {
		slog.Debug("mailer disabled, dropping email", "to", to, "subject", subject)
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"from":    m.sender,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return fmt.Errorf("mailer marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mailer request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailer status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// SendAsync delivers the email in a goroutine and logs failures.
func (m *Mailer) SendAsync(to, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := m.Send(ctx, to, subject, html); err != nil {
			slog.Warn("email send failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

// Welcome sends the post-registration email.
func (m *Mailer) Welcome(to, displayName string) {
	m.SendAsync(to, "Welcome to PromptForge",
		fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Run the wizard and generate your first app prompt.</p>", displayName))
}

// PaymentConfirmed sends the receipt email after a confirmed charge.
func (m *Mailer) PaymentConfirmed(to string, amountCents int64, currency string) {
	m.SendAsync(to, "Payment received",
		fmt.Sprintf("<p>We received your payment of %.2f %s. Thank you!</p>", float64(amountCents)/100, currency))
}

// SubscriptionActive sends the upgrade confirmation email.
func (m *Mailer) SubscriptionActive(to, tier string) {
	m.SendAsync(to, "Your plan is active",
		fmt.Sprintf("<p>Your %s plan is now active. Enjoy the higher generation limits.</p>", tier))
}
