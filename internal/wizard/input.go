// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wizard implements the multi-step input collection flow that
// feeds the prompt composer. A Machine holds the current step and the
// structured input being assembled; a Store persists machines in Valkey
// so the HTTP layer stays stateless between step requests.
package wizard

// Mode selects which wizard path the user is on. Quick collects the bare
// minimum in two steps; custom walks through all eight.
type Mode string

const (
	ModeQuick  Mode = "quick"
	ModeCustom Mode = "custom"
)

// Style is the visual direction baked into the composed prompt.
type Style string

const (
	StyleModern    Style = "modern"
	StyleCorporate Style = "corporate"
	StyleCreative  Style = "creative"
	StyleTech      Style = "tech"
)

// Platform identifies the AI code-generation tool the prompt targets.
type Platform string

const (
	PlatformLovable  Platform = "lovable"
	PlatformBolt     Platform = "bolt"
	PlatformV0       Platform = "v0"
	PlatformReplit   Platform = "replit"
	PlatformAIStudio Platform = "google-ai-studio"
	PlatformCursor   Platform = "cursor"
)

// MonetizationModel is how the generated app charges its users.
type MonetizationModel string

const (
	ModelSubscription MonetizationModel = "subscription"
	ModelOneTime      MonetizationModel = "one-time"
	ModelFreemium     MonetizationModel = "freemium"
)

// PaymentProvider is the payment gateway the generated app integrates.
type PaymentProvider string

const (
	ProviderStripe      PaymentProvider = "stripe"
	ProviderAsaas       PaymentProvider = "asaas"
	ProviderMercadoPago PaymentProvider = "mercadopago"
	ProviderDemo        PaymentProvider = "demo"
)

// Monetization groups the billing-related choices for the generated app.
type Monetization struct {
	Enabled   bool              `json:"enabled"`
	Model     MonetizationModel `json:"model"`
	Provider  PaymentProvider   `json:"provider"`
	Plans     []string          `json:"plans"`
	TrialDays int               `json:"trial_days"` // 0-30
}

// Input is the structured record the wizard assembles field by field and
// the composer consumes exactly once at the final step. Free-text fields
// carry no format constraints; the composer substitutes defaults or
// explicit inference markers for anything left empty. Color fields are
// plain hex strings and are not validated — they feed a text prompt, not
// a renderer.
type Input struct {
	Mode           Mode     `json:"mode"`
	AppName        string   `json:"app_name"`
	Niche          string   `json:"niche"`
	TargetAudience string   `json:"target_audience"`
	Description    string   `json:"description"`
	Style          Style    `json:"style"`
	Platform       Platform `json:"platform"`
	PrimaryColor   string   `json:"primary_color"`
	SecondaryColor string   `json:"secondary_color"`
	FontWeight     int      `json:"font_weight"` // 100-900, step 100

	// Features and Sections preserve user insertion order — the composer
	// renders them verbatim in that order. The UI prevents duplicates;
	// nothing here re-checks.
	Features []string `json:"features"`
	Sections []string `json:"sections"`

	Monetization Monetization `json:"monetization"`
}
