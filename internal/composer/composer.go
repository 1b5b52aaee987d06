// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package composer turns a structured wizard input into the final prompt
// document sent to the code-generation tool. Every Compose function is
// pure: no I/O, no shared state, identical output for identical input.
//
// The composer never emits an empty placeholder. Every enumerated field
// has a default, and free-text fields left empty render an explicit
// bracketed inference instruction for the downstream LLM instead of a
// blank — information is filled, defaulted, or delegated, never dropped.
package composer

import (
	"fmt"
	"strings"

	"promptforge/internal/wizard"
)

// Variant selects the framing of the SaaS PRD template. The product went
// through three generations of the same template; they differ only in
// voice and closing instructions, so a single composer with a variant
// parameter replaces them.
type Variant string

const (
	// VariantClassic is the original plain PRD voice.
	VariantClassic Variant = "classic"
	// VariantStructured numbers every requirement for tools that follow
	// documents section by section.
	VariantStructured Variant = "structured"
	// VariantAgent addresses the build tool directly as an engineering
	// agent. This is the default for new projects.
	VariantAgent Variant = "agent"
)

// Options tunes the SaaS composer.
type Options struct {
	Variant Variant
}

// Field defaults and inference markers.
const (
	defaultPrimaryColor   = "#6366F1"
	defaultSecondaryColor = "#0F172A"
	defaultFontWeight     = 400

	inferAudience    = "[Infer the target audience from the niche]"
	inferDescription = "[Infer a one-paragraph product description from the niche and feature list]"
	inferNiche       = "[Infer the niche from the app name]"

	defaultFeatureBullet = "- Core workflow for the niche — infer the essential features a first release needs"
	defaultSectionBullet = "- Standard layout: hero, features, social proof, footer"
)

// orInfer returns the trimmed value, or the marker when it is empty.
func orInfer(value, marker string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return marker
}

// orDefault returns the trimmed value, or fallback when it is empty.
func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// bulletList renders one "- item" line per element, preserving insertion
// order. An empty list renders the single fallback bullet, never an
// empty section.
func bulletList(items []string, fallback string) string {
	var lines []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "\n")
}

// styleDirection maps the enumerated visual style to the prose the
// downstream tool designs against. The modern style is the default.
func styleDirection(s wizard.Style) string {
	switch s {
	case wizard.StyleCorporate:
		return "Corporate and trustworthy: structured grid, muted palette accents, conservative typography, data-dense layouts."
	case wizard.StyleCreative:
		return "Creative and expressive: bold colors, playful shapes, asymmetric layouts, large display typography."
	case wizard.StyleTech:
		return "Technical and precise: dark surfaces, monospace accents, terminal-inspired details, high information density."
	default:
		return "Modern and minimal: generous whitespace, soft shadows, rounded corners, clear visual hierarchy."
	}
}

// fontWeight clamps to the valid 100-900 range, defaulting to 400.
func fontWeight(w int) int {
	if w < 100 || w > 900 {
		return defaultFontWeight
	}
	return w
}

// platformNotes returns the build notes for the selected target platform.
// Exactly one variant is emitted; lovable is the default.
func platformNotes(p wizard.Platform) string {
	switch p {
	case wizard.PlatformBolt:
		return "Target platform: Bolt. Generate a Vite + React project. Keep the whole app inside a single workspace, use npm, and make sure the dev server starts without extra configuration."
	case wizard.PlatformV0:
		return "Target platform: v0. Generate Next.js App Router components with shadcn/ui and Tailwind. Prefer server components; isolate client interactivity into small leaf components."
	case wizard.PlatformReplit:
		return "Target platform: Replit. Generate a project that runs with the default Replit run button. Include a .replit-compatible start command and keep secrets in environment variables."
	case wizard.PlatformAIStudio:
		return "Target platform: Google AI Studio. Produce a single-file web app where possible; inline styles and scripts are acceptable. Avoid build steps."
	case wizard.PlatformCursor:
		return "Target platform: Cursor. Generate a conventional repository layout with clear module boundaries so the editor agent can navigate and extend it file by file."
	default:
		return "Target platform: Lovable. Generate a React + Tailwind + Supabase project. Use Supabase for auth and persistence and keep all configuration in the Lovable project settings."
	}
}

// monetizationSection renders exactly one of the two mutually exclusive
// monetization variants. The disabled sentence is load-bearing: the
// downstream tool must not invent pricing screens for free products.
func monetizationSection(m wizard.Monetization) string {
	if !m.Enabled {
		return "This product is free to use. Do not include pricing, checkout, or subscription management screens."
	}

	model := m.Model
	if model == "" {
		model = wizard.ModelSubscription
	}
	provider := m.Provider
	if provider == "" {
		provider = wizard.ProviderStripe
	}

	plans := m.Plans
	if len(plans) == 0 {
		plans = []string{"Free", "Pro"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Monetization model: %s, billed through %s.\n", model, providerLabel(provider))
	b.WriteString("Include a pricing page with one card per plan, a checkout flow, and a billing section in user settings.\n")
	b.WriteString("Plans:\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	if m.TrialDays > 0 {
		fmt.Fprintf(&b, "Offer a %d-day free trial before the first charge.", m.TrialDays)
	} else {
		b.WriteString("No free trial — charge starts immediately on subscription.")
	}
	return b.String()
}

// providerLabel maps the provider enum to its display name in prose.
func providerLabel(p wizard.PaymentProvider) string {
	switch p {
	case wizard.ProviderAsaas:
		return "Asaas (PIX and credit card)"
	case wizard.ProviderMercadoPago:
		return "Mercado Pago (PIX and credit card)"
	case wizard.ProviderDemo:
		return "a demo payment provider (no real charges)"
	default:
		return "Stripe"
	}
}

// replaceTokens substitutes every {{TOKEN}} pair in the template. The
// pairs list must cover every token the template declares; composer
// tests assert no literal token survives.
func replaceTokens(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}
