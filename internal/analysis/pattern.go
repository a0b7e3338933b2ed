package analysis

import (
	"fmt"
	"strings"
)

// The four behavioral factors. Factor names are case-sensitive in
// configuration and pattern orderings.
const (
	FactorPrecision  = "Precision"
	FactorResolve    = "Resolve"
	FactorInnovation = "Innovation"
	FactorHarmony    = "Harmony"
)

// FactorNames lists the factors in canonical order.
var FactorNames = []string{FactorPrecision, FactorResolve, FactorInnovation, FactorHarmony}

// Rank labels, primary through quaternary, used as multiplier table keys.
const (
	RankPrimary    = "primary"
	RankSecondary  = "secondary"
	RankTertiary   = "tertiary"
	RankQuaternary = "quaternary"
)

// RankLabels lists the rank labels from primary to quaternary.
var RankLabels = []string{RankPrimary, RankSecondary, RankTertiary, RankQuaternary}

// CatalogEntry is one named pattern in the configured catalog: an ordered
// rank assignment of the four factors.
type CatalogEntry struct {
	ID    int
	Name  string
	Order []string
}

// PatternRef identifies the pattern a result was scored against. ID is nil
// for ad hoc orderings supplied by the caller.
type PatternRef struct {
	ID    *int     `json:"id"`
	Name  string   `json:"name"`
	Order []string `json:"order"`
}

// ValidateOrder checks that order is a permutation containing each of the
// four factor names exactly once.
func ValidateOrder(order []string) error {
	if len(order) != len(FactorNames) {
		return fmt.Errorf("pattern ordering must list exactly %d factors, got %d", len(FactorNames), len(order))
	}
	seen := make(map[string]bool, len(order))
	for _, f := range order {
		if !isFactor(f) {
			return fmt.Errorf("unknown factor %q in pattern ordering (want one of %s)", f, strings.Join(FactorNames, ", "))
		}
		if seen[f] {
			return fmt.Errorf("factor %q repeated in pattern ordering", f)
		}
		seen[f] = true
	}
	return nil
}

func isFactor(name string) bool {
	for _, f := range FactorNames {
		if f == name {
			return true
		}
	}
	return false
}

// ResolvePattern maps a caller-supplied selector to a pattern reference.
// Precedence: literal ordering, then id, then case-insensitive name. The
// boolean reports whether any selector was supplied at all.
func (e *Engine) ResolvePattern(id *int, name string, order []string) (PatternRef, bool, error) {
	switch {
	case len(order) > 0:
		if err := ValidateOrder(order); err != nil {
			return PatternRef{}, true, err
		}
		return PatternRef{Name: "custom", Order: order}, true, nil
	case id != nil:
		entry, ok := e.byID[*id]
		if !ok {
			return PatternRef{}, true, fmt.Errorf("unknown pattern id %d", *id)
		}
		return entry.ref(), true, nil
	case name != "":
		entry, ok := e.byName[strings.ToLower(name)]
		if !ok {
			return PatternRef{}, true, fmt.Errorf("unknown pattern name %q", name)
		}
		return entry.ref(), true, nil
	default:
		return PatternRef{}, false, nil
	}
}

func (c *CatalogEntry) ref() PatternRef {
	id := c.ID
	return PatternRef{ID: &id, Name: c.Name, Order: c.Order}
}
