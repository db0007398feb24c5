package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nulzo/intent-router/internal/intent"
)

// ErrConfigurationDefect marks a routing table that cannot serve every
// reachable intent. It is a startup failure, never a per-call one.
var ErrConfigurationDefect = errors.New("routing table configuration defect")

// ModelConfig is the routing record attached to one intent. A zero
// MaxTokens or nil Temperature means the completion client default applies.
type ModelConfig struct {
	Model       string   `json:"model" mapstructure:"model" validate:"required"`
	MaxTokens   int      `json:"max_tokens,omitempty" mapstructure:"max_tokens" validate:"gte=0"`
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
}

// Temp returns a pointer to t for use in ModelConfig literals.
func Temp(t float64) *float64 {
	return &t
}

// Inherit fills the fields c leaves unset from base.
func (c ModelConfig) Inherit(base ModelConfig) ModelConfig {
	if c.Model == "" {
		c.Model = base.Model
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = base.MaxTokens
	}
	if c.Temperature == nil && base.Temperature != nil {
		c.Temperature = Temp(*base.Temperature)
	}
	if c.Description == "" {
		c.Description = base.Description
	}
	return c
}

// Resolve returns c with unset generation parameters replaced by the
// given defaults.
func (c ModelConfig) Resolve(maxTokens int, temperature float64) ModelConfig {
	return c.Inherit(ModelConfig{MaxTokens: maxTokens, Temperature: &temperature})
}

func (c ModelConfig) clone() ModelConfig {
	if c.Temperature != nil {
		c.Temperature = Temp(*c.Temperature)
	}
	return c
}

// Table maps an intent to its model configuration.
type Table map[intent.Intent]ModelConfig

// DefaultTable returns the built-in routing policy.
func DefaultTable() Table {
	return Table{
		intent.Simple: {
			Model:       "google/gemini-2.5-flash",
			MaxTokens:   1024,
			Temperature: Temp(0.3),
			Description: "quick lookups and shell-level questions",
		},
		intent.CodeGen: {
			Model:       "anthropic/claude-sonnet-4-5",
			MaxTokens:   4096,
			Temperature: Temp(0.2),
			Description: "writing new code",
		},
		intent.Debug: {
			Model:       "anthropic/claude-sonnet-4-5",
			MaxTokens:   4096,
			Temperature: Temp(0.1),
			Description: "diagnosing failures",
		},
		intent.Architecture: {
			Model:       "anthropic/claude-opus-4-6",
			MaxTokens:   8192,
			Temperature: Temp(0.7),
			Description: "system design and trade-offs",
		},
		intent.ArchitectureScreening: {
			Model:       "google/gemini-2.5-flash",
			MaxTokens:   2048,
			Temperature: Temp(0.5),
			Description: "reserved: first-pass design screening",
		},
		intent.ArchitectureScreeningAlt: {
			Model:       "openai/gpt-4o-mini",
			MaxTokens:   2048,
			Temperature: Temp(0.5),
			Description: "reserved: alternate design screening",
		},
		intent.ArchitecturePremium: {
			Model:       "anthropic/claude-opus-4-6",
			MaxTokens:   16384,
			Temperature: Temp(0.7),
			Description: "reserved: premium design review",
		},
	}
}

// Validate checks that every reachable intent has an entry with a model.
func (t Table) Validate() error {
	var missing []string
	for _, i := range intent.Reachable {
		cfg, ok := t[i]
		if !ok || strings.TrimSpace(cfg.Model) == "" {
			missing = append(missing, i.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no model configured for intents [%s]", ErrConfigurationDefect, strings.Join(missing, ", "))
	}
	return nil
}

// Merge returns a copy of t with the entries of override applied on top.
func (t Table) Merge(override Table) Table {
	out := make(Table, len(t)+len(override))
	for i, cfg := range t {
		out[i] = cfg.clone()
	}
	for i, cfg := range override {
		out[i] = cfg.clone()
	}
	return out
}
