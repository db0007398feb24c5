package intent

import (
	"fmt"
	"strings"
)

// Intent is a coarse category of developer query used to select a model.
type Intent string

const (
	Simple       Intent = "simple"
	CodeGen      Intent = "code_gen"
	Debug        Intent = "debug"
	Architecture Intent = "architecture"

	// Reserved intents are part of the scoring structure but have no pattern
	// set. Their score is always 0 so they can never be selected.
	ArchitectureScreening    Intent = "architecture_screening"
	ArchitectureScreeningAlt Intent = "architecture_screening_alt"
	ArchitecturePremium      Intent = "architecture_premium"
)

// Order is the fixed enumeration order. Ties between scores are broken by
// whichever intent appears first here.
var Order = []Intent{
	Simple,
	CodeGen,
	Debug,
	Architecture,
	ArchitectureScreening,
	ArchitectureScreeningAlt,
	ArchitecturePremium,
}

// Reachable lists the intents the classifier can actually produce.
var Reachable = []Intent{Simple, CodeGen, Debug, Architecture}

// Reachable reports whether the classifier can ever return i.
func (i Intent) Reachable() bool {
	for _, r := range Reachable {
		if r == i {
			return true
		}
	}
	return false
}

// Valid reports whether i is a declared intent, reserved or not.
func (i Intent) Valid() bool {
	for _, o := range Order {
		if o == i {
			return true
		}
	}
	return false
}

func (i Intent) String() string {
	return string(i)
}

// ParseIntent converts a raw string into a declared Intent.
func ParseIntent(s string) (Intent, error) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("unknown intent: %q", s)
	}
	return i, nil
}
