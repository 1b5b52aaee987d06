// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxEmailLen        = 254
	maxDisplayNameLen  = 100
	minPasswordLen     = 8
	maxPasswordLen     = 200
	maxProjectNameLen  = 120
	maxTemplateNameLen = 200
	maxTemplateLen     = 100_000
	maxShowcaseURLLen  = 500
	maxNicheLen        = 200
)

// validateEmail checks a registration/login email and returns the first
// error found, or "".
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return "Email is not valid."
	}
	return ""
}

// validatePassword checks a new password against the length bounds.
func validatePassword(password string) string {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if n > maxPasswordLen {
		return "Password is too long (max 200 characters)."
	}
	return ""
}

// validateDisplayName checks a profile display name.
func validateDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Display name is required."
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return "Display name is too long (max 100 characters)."
	}
	return ""
}

// validateProjectName checks a project name on rename.
func validateProjectName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Project name is required."
	}
	if utf8.RuneCountInString(name) > maxProjectNameLen {
		return "Project name is too long (max 120 characters)."
	}
	return ""
}

// validateTemplate checks prompt template inputs and returns the first
// error found.
func validateTemplate(name, content string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Template content is required."
	}
	if utf8.RuneCountInString(content) > maxTemplateLen {
		return "Template content is too long (max 100,000 characters)."
	}
	return ""
}

// validateShowcase checks a community showcase submission.
func validateShowcase(name, niche, rawURL string) string {
	if msg := validateProjectName(name); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(niche) > maxNicheLen {
		return "Niche is too long (max 200 characters)."
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "URL is required."
	}
	if utf8.RuneCountInString(rawURL) > maxShowcaseURLLen {
		return "URL is too long (max 500 characters)."
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL must be a valid http(s) address."
	}
	return ""
}
