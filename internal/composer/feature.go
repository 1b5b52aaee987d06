// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package composer

import (
	"promptforge/internal/wizard"
)

// featureTemplate is the feature-builder prompt: it extends an existing
// app instead of specifying one from scratch, so it carries no visual
// identity section — the features must match what is already there.
const featureTemplate = `You are extending an existing application. Do not restyle, rename, or restructure anything that already works — match the current design system and conventions exactly.

# Feature Specification: {{APP_NAME}}

**Application:** {{APP_NAME}} ({{NICHE}})
**Context:** {{DESCRIPTION}}

## Features to Add

Implement each feature below as a complete flow, in this order:

{{FEATURE_LIST}}

For every feature: wire it into the existing navigation, persist its data
alongside the current schema, and cover empty, loading, and error states.

## Integration Notes

{{MONETIZATION_SECTION}}

## Build Target

{{PLATFORM_SECTION}}

When a detail is not specified above, infer it from how the existing
application already handles the closest equivalent.`

// ComposeFeature renders the feature-builder prompt. Pure function; see
// ComposeSaaS for the contract.
func ComposeFeature(in wizard.Input) string {
	return replaceTokens(featureTemplate,
		"{{APP_NAME}}", orDefault(in.AppName, "Untitled App"),
		"{{NICHE}}", orInfer(in.Niche, inferNiche),
		"{{DESCRIPTION}}", orInfer(in.Description, "[Infer the application's purpose from its name and the features below]"),
		"{{FEATURE_LIST}}", bulletList(in.Features, defaultFeatureBullet),
		"{{MONETIZATION_SECTION}}", monetizationSection(in.Monetization),
		"{{PLATFORM_SECTION}}", platformNotes(in.Platform),
	)
}
