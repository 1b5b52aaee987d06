// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wizard

import (
	"fmt"
	"strings"
)

// Step counts per mode. The quick path collects name, niche, and look in
// two screens; the custom path walks through every input group.
const (
	quickSteps  = 2
	customSteps = 8
)

// Machine is the wizard state: a linear step counter plus the input under
// construction. Done is the distinct result pseudo-state entered when
// Next() fires on the last step — it is not a numbered step.
//
// A machine belongs to exactly one wizard session and is mutated only by
// that session's requests, one synchronous transition at a time.
type Machine struct {
	Step  int   `json:"step"`
	Done  bool  `json:"done"`
	Input Input `json:"input"`
}

// New returns a machine at step 0 with an initial input record. Mode
// defaults to quick until the user picks otherwise on the first screen.
func New() *Machine {
	return &Machine{
		Input: Input{Mode: ModeQuick},
	}
}

// TotalSteps returns the step count for the active mode.
func (m *Machine) TotalSteps() int {
	if m.Input.Mode == ModeCustom {
		return customSteps
	}
	return quickSteps
}

// LastStep returns the index of the final input-collection step.
func (m *Machine) LastStep() int {
	return m.TotalSteps() - 1
}

// Progress returns completion as a percentage of the active mode's steps.
// The result state reports 100.
func (m *Machine) Progress() int {
	if m.Done {
		return 100
	}
	return m.Step * 100 / m.TotalSteps()
}

// CanAdvance reports whether the current step's required fields are all
// non-empty. Presence checks only — this is the whole of the wizard's
// validation.
func (m *Machine) CanAdvance() bool {
	for _, f := range m.requiredFields() {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// requiredFields returns the values that must be present before the
// current step allows a forward transition.
func (m *Machine) requiredFields() []string {
	if m.Input.Mode == ModeCustom {
		switch m.Step {
		case 1:
			return []string{m.Input.AppName, m.Input.Niche}
		}
		return nil
	}
	// Quick mode front-loads the required basics onto the first screen.
	if m.Step == 0 {
		return []string{m.Input.AppName, m.Input.Niche}
	}
	return nil
}

// Next advances to the following step, or enters the result state when
// called on the last step. Returns false without moving when the current
// step's guard blocks the transition.
func (m *Machine) Next() bool {
	if m.Done || !m.CanAdvance() {
		return false
	}
	if m.Step >= m.LastStep() {
		m.Done = true
		return true
	}
	m.Step++
	return true
}

// Prev steps backward. No-op at step 0. Leaving the result state returns
// to the last input step.
func (m *Machine) Prev() {
	if m.Done {
		m.Done = false
		return
	}
	if m.Step > 0 {
		m.Step--
	}
}

// JumpTo sets the step index directly, clamped to the active mode's
// range. Used for "create new" (reset to 0) and result-to-restart
// transitions; always leaves the result state.
func (m *Machine) JumpTo(n int) {
	if n < 0 {
		n = 0
	}
	if n > m.LastStep() {
		n = m.LastStep()
	}
	m.Step = n
	m.Done = false
}

// UpdateField merges a single value into the input. Keys match the JSON
// field names; monetization sub-fields use a "monetization." prefix.
// Values arrive as decoded JSON, so numbers are float64 and lists are
// []any.
func (m *Machine) UpdateField(key string, value any) error {
	switch key {
	case "mode":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		switch Mode(s) {
		case ModeQuick, ModeCustom:
			m.Input.Mode = Mode(s)
		default:
			return fmt.Errorf("wizard: unknown mode %q", s)
		}
		// Mode changes can shrink the step range.
		if m.Step > m.LastStep() {
			m.Step = m.LastStep()
		}
	case "app_name":
		return setString(&m.Input.AppName, key, value)
	case "niche":
		return setString(&m.Input.Niche, key, value)
	case "target_audience":
		return setString(&m.Input.TargetAudience, key, value)
	case "description":
		return setString(&m.Input.Description, key, value)
	case "style":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		m.Input.Style = Style(s)
	case "platform":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		m.Input.Platform = Platform(s)
	case "primary_color":
		return setString(&m.Input.PrimaryColor, key, value)
	case "secondary_color":
		return setString(&m.Input.SecondaryColor, key, value)
	case "font_weight":
		n, err := asInt(key, value)
		if err != nil {
			return err
		}
		m.Input.FontWeight = n
	case "features":
		return setStringList(&m.Input.Features, key, value)
	case "sections":
		return setStringList(&m.Input.Sections, key, value)
	case "monetization.enabled":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("wizard: field %q wants a boolean", key)
		}
		m.Input.Monetization.Enabled = b
	case "monetization.model":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		m.Input.Monetization.Model = MonetizationModel(s)
	case "monetization.provider":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		m.Input.Monetization.Provider = PaymentProvider(s)
	case "monetization.plans":
		return setStringList(&m.Input.Monetization.Plans, key, value)
	case "monetization.trial_days":
		n, err := asInt(key, value)
		if err != nil {
			return err
		}
		m.Input.Monetization.TrialDays = n
	default:
		return fmt.Errorf("wizard: unknown field %q", key)
	}
	return nil
}

func asString(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("wizard: field %q wants a string", key)
	}
	return s, nil
}

func setString(dst *string, key string, value any) error {
	s, err := asString(key, value)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func asInt(key string, value any) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, fmt.Errorf("wizard: field %q wants a number", key)
}

func setStringList(dst *[]string, key string, value any) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("wizard: field %q wants a list of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return fmt.Errorf("wizard: field %q wants a list of strings", key)
		}
		out = append(out, s)
	}
	*dst = out
	return nil
}
