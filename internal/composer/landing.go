// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package composer

import (
	"strconv"

	"promptforge/internal/wizard"
)

// landingTemplate is the landing-page agent prompt. It asks for a single
// conversion-focused page rather than a full application.
const landingTemplate = `You are a landing page specialist. Build a single, conversion-focused landing page for the product below. No application logic — every call to action links to a signup form.

# Landing Page Brief: {{APP_NAME}}

**Product:** {{APP_NAME}} — {{NICHE}}
**Audience:** {{TARGET_AUDIENCE}}

{{DESCRIPTION}}

## Design Direction

{{STYLE_DIRECTION}}

- Primary color: {{PRIMARY_COLOR}}
- Secondary color: {{SECONDARY_COLOR}}
- Base font weight: {{FONT_WEIGHT}}

## Page Sections

{{SECTION_LIST}}

Open with a hero that states the product's value in one sentence and
shows a single primary call to action above the fold.

## Selling Points

Turn each item below into one benefit-led section or card, in this order:

{{FEATURE_LIST}}

## Offer

{{MONETIZATION_SECTION}}

## Build Target

{{PLATFORM_SECTION}}

Ship the page complete: real copy (no lorem ipsum), responsive layout,
and a working signup form that validates its inputs.`

// ComposeLanding renders the landing-page agent prompt. Pure function;
// see ComposeSaaS for the contract.
func ComposeLanding(in wizard.Input) string {
	return replaceTokens(landingTemplate,
		"{{APP_NAME}}", orDefault(in.AppName, "Untitled Product"),
		"{{NICHE}}", orInfer(in.Niche, inferNiche),
		"{{TARGET_AUDIENCE}}", orInfer(in.TargetAudience, inferAudience),
		"{{DESCRIPTION}}", orInfer(in.Description, inferDescription),
		"{{STYLE_DIRECTION}}", styleDirection(in.Style),
		"{{PRIMARY_COLOR}}", orDefault(in.PrimaryColor, defaultPrimaryColor),
		"{{SECONDARY_COLOR}}", orDefault(in.SecondaryColor, defaultSecondaryColor),
		"{{FONT_WEIGHT}}", strconv.Itoa(fontWeight(in.FontWeight)),
		"{{SECTION_LIST}}", sectionList(in),
		"{{FEATURE_LIST}}", bulletList(in.Features, defaultFeatureBullet),
		"{{MONETIZATION_SECTION}}", monetizationSection(in.Monetization),
		"{{PLATFORM_SECTION}}", platformNotes(in.Platform),
	)
}
