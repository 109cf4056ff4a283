// ABOUTME: Assumptions attached to an identification, decoded once into canonical form.
// ABOUTME: Accepts a JSON object, a pre-serialized object string, a plain string, or a string array.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Assumptions records what the user took for granted during an event.
type Assumptions struct {
	WhatAssumptions    string `json:"what_assumptions,omitempty"`
	IgnoredInformation string `json:"ignored_information,omitempty"`
	ProtectedBeliefs   string `json:"protected_beliefs,omitempty"`
}

// assumptionsObject avoids recursing into Assumptions.UnmarshalJSON.
type assumptionsObject Assumptions

// IsEmpty returns true if no field carries text.
func (a Assumptions) IsEmpty() bool {
	return len(a.Values()) == 0
}

// Values returns the non-empty fields in fixed order: what, ignored, protected.
func (a Assumptions) Values() []string {
	var out []string
	for _, v := range []string{a.WhatAssumptions, a.IgnoredInformation, a.ProtectedBeliefs} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// UnmarshalJSON decodes every stored or submitted shape into the canonical struct.
func (a *Assumptions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Assumptions{}
		return nil
	}

	switch data[0] {
	case '{':
		var obj assumptionsObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode assumptions object: %w", err)
		}
		*a = Assumptions(obj)
		return nil

	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode assumptions list: %w", err)
		}
		var kept []string
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				kept = append(kept, item)
			}
		}
		*a = Assumptions{WhatAssumptions: strings.Join(kept, ", ")}
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode assumptions string: %w", err)
		}
		return a.decodeString(s)
	}

	return fmt.Errorf("unsupported assumptions shape: %s", string(data))
}

// decodeString handles a string that is either serialized JSON or plain prose.
func (a *Assumptions) decodeString(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		*a = Assumptions{}
		return nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '"' {
		var nested Assumptions
		if err := nested.UnmarshalJSON([]byte(trimmed)); err == nil {
			*a = nested
			return nil
		}
	}
	*a = Assumptions{WhatAssumptions: trimmed}
	return nil
}

// ParseAssumptions decodes raw JSON of any accepted shape.
func ParseAssumptions(raw json.RawMessage) (Assumptions, error) {
	var a Assumptions
	if len(raw) == 0 {
		return a, nil
	}
	err := a.UnmarshalJSON(raw)
	return a, err
}
