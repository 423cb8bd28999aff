package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Settings is the app configuration singleton (store key "config"). It is
// stored in plaintext: settings are device-local configuration, not user
// content, and are never overwritten by an imported backup unless the local
// settings are empty.
//
// Unknown fields survive a load/save round trip via Extra, so older or newer
// app versions can carry each other's settings through a backup untouched.
type Settings struct {
	GroqKey     string
	GroqModel   string
	GroqEnabled *bool // nil = default on
	UpdatedAt   time.Time

	Extra map[string]json.RawMessage
}

const defaultGroqModel = "llama-3.3-70b-versatile"

// Model returns the configured model or the default.
func (s *Settings) Model() string {
	if s.GroqModel == "" {
		return defaultGroqModel
	}
	return s.GroqModel
}

// GroqActive reports whether automatic generation should be attempted:
// a plausible key is configured and the feature has not been disabled.
func (s *Settings) GroqActive() bool {
	if s.GroqEnabled != nil && !*s.GroqEnabled {
		return false
	}
	return strings.HasPrefix(s.GroqKey, "gsk_")
}

// IsZero reports whether no settings have ever been saved. Used by the merge
// engine: foreign settings are adopted only into an empty local store.
func (s *Settings) IsZero() bool {
	return s.GroqKey == "" && s.GroqModel == "" && s.GroqEnabled == nil &&
		len(s.Extra) == 0
}

func (s *Settings) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(s.Extra)+4)
	for k, v := range s.Extra {
		m[k] = v
	}
	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		m[key] = raw
		return nil
	}
	if s.GroqKey != "" {
		if err := set("groq_key", s.GroqKey); err != nil {
			return nil, err
		}
	}
	if s.GroqModel != "" {
		if err := set("groq_model", s.GroqModel); err != nil {
			return nil, err
		}
	}
	if s.GroqEnabled != nil {
		if err := set("groq_enabled", *s.GroqEnabled); err != nil {
			return nil, err
		}
	}
	if !s.UpdatedAt.IsZero() {
		if err := set("updatedAt", s.UpdatedAt); err != nil {
			return nil, err
		}
	}
	return json.Marshal(m)
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = Settings{}
	for key, raw := range m {
		switch key {
		case "groq_key":
			if err := json.Unmarshal(raw, &s.GroqKey); err != nil {
				return err
			}
		case "groq_model":
			if err := json.Unmarshal(raw, &s.GroqModel); err != nil {
				return err
			}
		case "groq_enabled":
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return err
			}
			s.GroqEnabled = &b
		case "updatedAt":
			if err := json.Unmarshal(raw, &s.UpdatedAt); err != nil {
				return err
			}
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[key] = raw
		}
	}
	return nil
}
