// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package vars

import (
	"reflect"
	"testing"
)

// ---------- Extract ----------

func TestExtract(t *testing.T) {
	t.Run("finds placeholders in order of first appearance", func(t *testing.T) {
		got := Extract("Build {{app_name}} for {{niche}} using {{app_name}}.")
		want := []string{"app_name", "niche"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract: got %v, want %v", got, want)
		}
	})

	t.Run("trims surrounding whitespace before deduplication", func(t *testing.T) {
		got := Extract("{{ foo }} and {{foo}}")
		want := []string{"foo"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract: got %v, want %v", got, want)
		}
	})

	t.Run("returns nil for text without placeholders", func(t *testing.T) {
		if got := Extract("no placeholders here"); got != nil {
			t.Errorf("Extract: got %v, want nil", got)
		}
	})

	t.Run("allows hyphens digits and underscores", func(t *testing.T) {
		got := Extract("{{plan-1_name}}")
		want := []string{"plan-1_name"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract: got %v, want %v", got, want)
		}
	})

	t.Run("nested-looking braces: first complete span wins", func(t *testing.T) {
		// "a{{b" contains an open brace, which is not a valid name
		// character, so the scanner locks onto the inner {{b}}.
		got := Extract("{{a{{b}}c}}")
		want := []string{"b"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Extract: got %v, want %v", got, want)
		}
	})
}

// ---------- Fill ----------

func TestFill(t *testing.T) {
	t.Run("replaces placeholders with non-empty values", func(t *testing.T) {
		got := Fill("Hello {{name}}, welcome to {{app}}!", map[string]string{
			"name": "Ana",
			"app":  "TaskFlow",
		})
		want := "Hello Ana, welcome to TaskFlow!"
		if got != want {
			t.Errorf("Fill: got %q, want %q", got, want)
		}
	})

	t.Run("leaves placeholders without values untouched", func(t *testing.T) {
		got := Fill("{{x}} and {{y}}", map[string]string{"x": "1"})
		want := "1 and {{y}}"
		if got != want {
			t.Errorf("Fill: got %q, want %q", got, want)
		}
	})

	t.Run("empty value is treated as missing", func(t *testing.T) {
		got := Fill("{{x}}", map[string]string{"x": ""})
		if got != "{{x}}" {
			t.Errorf("Fill: got %q, want %q", got, "{{x}}")
		}
	})

	t.Run("empty values map returns text unchanged", func(t *testing.T) {
		text := "keep {{this}} as-is"
		if got := Fill(text, map[string]string{}); got != text {
			t.Errorf("Fill: got %q, want %q", got, text)
		}
	})

	t.Run("repeated placeholders are filled identically everywhere", func(t *testing.T) {
		got := Fill("{{n}} + {{n}} = 2x{{n}}", map[string]string{"n": "5"})
		want := "5 + 5 = 2x5"
		if got != want {
			t.Errorf("Fill: got %q, want %q", got, want)
		}
	})

	t.Run("whitespace-padded placeholders match trimmed names", func(t *testing.T) {
		got := Fill("{{ name }}", map[string]string{"name": "Ana"})
		if got != "Ana" {
			t.Errorf("Fill: got %q, want %q", got, "Ana")
		}
	})
}

// ---------- Round trip ----------

func TestExtractFillRoundTrip(t *testing.T) {
	text := "Deploy {{app}} to {{platform}} for {{app}} users."

	names := Extract(text)
	want := []string{"app", "platform"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("Extract: got %v, want %v", names, want)
	}

	partial := Fill(text, map[string]string{"app": "Notes"})
	if partial != "Deploy Notes to {{platform}} for Notes users." {
		t.Errorf("partial fill: got %q", partial)
	}

	if got := Fill(text, nil); got != text {
		t.Errorf("fill with nil values changed text: got %q", got)
	}
}
