// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wizard

import (
	"reflect"
	"testing"
)

// ---------- Guards ----------

func TestMachineGuard(t *testing.T) {
	t.Run("next blocked while required fields are empty", func(t *testing.T) {
		m := New() // quick mode, step 0 requires app name + niche

		if m.Next() {
			t.Error("Next: expected guard to block with empty required fields")
		}
		if m.Step != 0 {
			t.Errorf("Step: got %d, want 0", m.Step)
		}
	})

	t.Run("next advances by exactly one after fields set", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "app_name", "TaskFlow")
		mustUpdate(t, m, "niche", "productivity")

		if !m.Next() {
			t.Fatal("Next: expected transition to succeed")
		}
		if m.Step != 1 {
			t.Errorf("Step: got %d, want 1", m.Step)
		}
	})

	t.Run("whitespace-only values do not satisfy the guard", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "app_name", "   ")
		mustUpdate(t, m, "niche", "fitness")

		if m.Next() {
			t.Error("Next: whitespace-only app name should block")
		}
	})

	t.Run("custom mode requires basics on step 1 not step 0", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "mode", "custom")

		// Step 0 is the mode screen — nothing required.
		if !m.Next() {
			t.Fatal("Next: step 0 should not be guarded in custom mode")
		}
		if m.Step != 1 {
			t.Fatalf("Step: got %d, want 1", m.Step)
		}

		if m.Next() {
			t.Error("Next: step 1 should block until basics are set")
		}
		mustUpdate(t, m, "app_name", "TaskFlow")
		mustUpdate(t, m, "niche", "productivity")
		if !m.Next() {
			t.Error("Next: expected transition after basics set")
		}
	})
}

// ---------- Transitions ----------

func TestMachineTransitions(t *testing.T) {
	t.Run("prev is a no-op at step 0", func(t *testing.T) {
		m := New()
		m.Prev()
		if m.Step != 0 {
			t.Errorf("Step: got %d, want 0", m.Step)
		}
	})

	t.Run("last step next enters the result state", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "app_name", "TaskFlow")
		mustUpdate(t, m, "niche", "productivity")

		if !m.Next() { // 0 -> 1
			t.Fatal("Next: step 0 -> 1 failed")
		}
		if !m.Next() { // 1 -> result
			t.Fatal("Next: expected result transition")
		}
		if !m.Done {
			t.Error("Done: expected result state")
		}
		if m.Step != m.LastStep() {
			t.Errorf("Step: got %d, want %d (result is not a numbered step)", m.Step, m.LastStep())
		}
	})

	t.Run("prev leaves the result state", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "app_name", "A")
		mustUpdate(t, m, "niche", "B")
		m.Next()
		m.Next()

		m.Prev()
		if m.Done {
			t.Error("Done: expected to leave result state")
		}
		if m.Step != m.LastStep() {
			t.Errorf("Step: got %d, want %d", m.Step, m.LastStep())
		}
	})

	t.Run("jump clamps to the active mode's range", func(t *testing.T) {
		m := New() // quick: last step is 1
		m.JumpTo(10)
		if m.Step != 1 {
			t.Errorf("Step: got %d, want 1", m.Step)
		}
		m.JumpTo(-3)
		if m.Step != 0 {
			t.Errorf("Step: got %d, want 0", m.Step)
		}
	})

	t.Run("switching to quick mode clamps an out-of-range step", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "mode", "custom")
		m.JumpTo(5)

		mustUpdate(t, m, "mode", "quick")
		if m.Step != 1 {
			t.Errorf("Step: got %d, want 1 after shrinking to quick mode", m.Step)
		}
	})
}

// ---------- Mode-derived counts ----------

func TestMachineProgress(t *testing.T) {
	t.Run("total steps derive from mode", func(t *testing.T) {
		m := New()
		if got := m.TotalSteps(); got != 2 {
			t.Errorf("TotalSteps quick: got %d, want 2", got)
		}
		mustUpdate(t, m, "mode", "custom")
		if got := m.TotalSteps(); got != 8 {
			t.Errorf("TotalSteps custom: got %d, want 8", got)
		}
	})

	t.Run("progress percentage", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "mode", "custom")
		m.JumpTo(4)
		if got := m.Progress(); got != 50 {
			t.Errorf("Progress: got %d, want 50", got)
		}

		m.Done = true
		if got := m.Progress(); got != 100 {
			t.Errorf("Progress in result state: got %d, want 100", got)
		}
	})
}

// ---------- Field updates ----------

func TestMachineUpdateField(t *testing.T) {
	t.Run("merges scalar, list, and nested fields", func(t *testing.T) {
		m := New()
		mustUpdate(t, m, "features", []any{"Auth", "Dashboard"})
		mustUpdate(t, m, "font_weight", float64(700))
		mustUpdate(t, m, "monetization.enabled", true)
		mustUpdate(t, m, "monetization.trial_days", float64(14))
		mustUpdate(t, m, "monetization.plans", []any{"Basic", "Pro"})

		if !reflect.DeepEqual(m.Input.Features, []string{"Auth", "Dashboard"}) {
			t.Errorf("Features: got %v", m.Input.Features)
		}
		if m.Input.FontWeight != 700 {
			t.Errorf("FontWeight: got %d, want 700", m.Input.FontWeight)
		}
		if !m.Input.Monetization.Enabled {
			t.Error("Monetization.Enabled: want true")
		}
		if m.Input.Monetization.TrialDays != 14 {
			t.Errorf("TrialDays: got %d, want 14", m.Input.Monetization.TrialDays)
		}
		if !reflect.DeepEqual(m.Input.Monetization.Plans, []string{"Basic", "Pro"}) {
			t.Errorf("Plans: got %v", m.Input.Monetization.Plans)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		m := New()
		if err := m.UpdateField("bogus", "x"); err == nil {
			t.Error("UpdateField: expected error for unknown key")
		}
	})

	t.Run("rejects wrong value types", func(t *testing.T) {
		m := New()
		if err := m.UpdateField("app_name", 42); err == nil {
			t.Error("UpdateField: expected error for non-string app_name")
		}
		if err := m.UpdateField("monetization.enabled", "yes"); err == nil {
			t.Error("UpdateField: expected error for non-bool enabled")
		}
		if err := m.UpdateField("features", []any{"ok", 1}); err == nil {
			t.Error("UpdateField: expected error for mixed-type list")
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		m := New()
		if err := m.UpdateField("mode", "turbo"); err == nil {
			t.Error("UpdateField: expected error for unknown mode")
		}
	})
}

func mustUpdate(t *testing.T, m *Machine, key string, value any) {
	t.Helper()
	if err := m.UpdateField(key, value); err != nil {
		t.Fatalf("UpdateField(%q): %v", key, err)
	}
}
