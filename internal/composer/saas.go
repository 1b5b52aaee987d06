// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package composer

import (
	"fmt"
	"strconv"

	"promptforge/internal/wizard"
)

// saasTemplate is the PRD skeleton every variant shares. Tokens are
// literal and double-braced; substitution happens in one pass.
const saasTemplate = `{{PREAMBLE}}

# Product Requirements Document: {{APP_NAME}}

## 1. Product Overview

**Product name:** {{APP_NAME}}
**Niche:** {{NICHE}}
**Target audience:** {{TARGET_AUDIENCE}}

{{DESCRIPTION}}

## 2. Visual Identity

{{STYLE_DIRECTION}}

- Primary color: {{PRIMARY_COLOR}}
- Secondary color: {{SECONDARY_COLOR}}
- Base font weight: {{FONT_WEIGHT}}

Apply the palette consistently across buttons, links, and accents. Keep
text contrast accessible against both colors.

## 3. Core Features

Build each feature below as a complete, working flow — not a placeholder
screen. Preserve this order when planning the build:

{{FEATURE_LIST}}

## 4. Page Structure

{{SECTION_LIST}}

## 5. Monetization

{{MONETIZATION_SECTION}}

## 6. Build Target

{{PLATFORM_SECTION}}

## 7. Quality Bar

- Every interactive element works; no dead buttons or lorem ipsum.
- Responsive from 360px phones to wide desktop.
- Empty states, loading states, and error states for every data view.
- Sensible seed data so the first screen never looks blank.

{{CLOSING}}`

// Variant-specific framing. Only the voice changes; the document body is
// identical across variants.
const (
	saasPreambleClassic = `This document specifies a complete SaaS web application. Read it fully before generating any code, then implement it section by section.`

	saasPreambleStructured = `The numbered sections below are build requirements in priority order. Treat each section as a milestone: complete it, verify it, then move to the next.`

	saasPreambleAgent = `You are a senior product engineer. Your task is to build the SaaS web application specified below, end to end, making reasonable decisions wherever the spec delegates inference to you.`

	saasClosingClassic = `Deliver the full application described above.`

	saasClosingStructured = `Work through sections 1-7 in order and do not skip any requirement.`

	saasClosingAgent = `Start by scaffolding the project, then implement sections 3 and 4 feature by feature. Ask nothing; where the spec says to infer, decide and proceed.`
)

// ComposeSaaS renders the SaaS PRD prompt for the given input. Pure and
// deterministic: the same input always yields a byte-identical document.
func ComposeSaaS(in wizard.Input, opts Options) string {
	preamble, closing := saasFraming(opts.Variant)

	return replaceTokens(saasTemplate,
		"{{PREAMBLE}}", preamble,
		"{{CLOSING}}", closing,
		"{{APP_NAME}}", orDefault(in.AppName, "Untitled App"),
		"{{NICHE}}", orInfer(in.Niche, inferNiche),
		"{{TARGET_AUDIENCE}}", orInfer(in.TargetAudience, inferAudience),
		"{{DESCRIPTION}}", orInfer(in.Description, inferDescription),
		"{{STYLE_DIRECTION}}", styleDirection(in.Style),
		"{{PRIMARY_COLOR}}", orDefault(in.PrimaryColor, defaultPrimaryColor),
		"{{SECONDARY_COLOR}}", orDefault(in.SecondaryColor, defaultSecondaryColor),
		"{{FONT_WEIGHT}}", strconv.Itoa(fontWeight(in.FontWeight)),
		"{{FEATURE_LIST}}", bulletList(in.Features, defaultFeatureBullet),
		"{{SECTION_LIST}}", sectionList(in),
		"{{MONETIZATION_SECTION}}", monetizationSection(in.Monetization),
		"{{PLATFORM_SECTION}}", platformNotes(in.Platform),
	)
}

// saasFraming picks the preamble/closing pair for the variant. Agent is
// the default for unknown or empty variants.
func saasFraming(v Variant) (preamble, closing string) {
	switch v {
	case VariantClassic:
		return saasPreambleClassic, saasClosingClassic
	case VariantStructured:
		return saasPreambleStructured, saasClosingStructured
	default:
		return saasPreambleAgent, saasClosingAgent
	}
}

// sectionList renders the included page sections in user order, with a
// short instruction line ahead of the bullets.
func sectionList(in wizard.Input) string {
	bullets := bulletList(in.Sections, defaultSectionBullet)
	return fmt.Sprintf("Include these page sections, in this order:\n\n%s", bullets)
}
