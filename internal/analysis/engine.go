// Package analysis implements the BCAT alignment scoring engine: it
// normalizes a raw behavioral signal bundle into bounded sub-metrics,
// aggregates them into curated metrics, projects those onto four factors,
// and ranks the factor vector against a catalog of behavioral patterns.
package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/bcat-alignment/internal/types"
)

// Engine evaluates signal bundles against the configured pattern catalog.
// It is stateless per request; the configuration tables are snapshotted at
// construction and never mutated, so an Engine is safe for concurrent use.
type Engine struct {
	weights     map[string]map[string]float64
	multipliers [4]float64 // indexed by rank, primary first
	catalog     []CatalogEntry
	byID        map[int]*CatalogEntry
	byName      map[string]*CatalogEntry
}

// NewEngine builds an engine from the three configuration tables,
// validating them up front so a malformed deployment fails at startup
// rather than per request.
func NewEngine(weights map[string]map[string]float64, multipliers map[string]float64, catalog []CatalogEntry) (*Engine, error) {
	e := &Engine{
		weights: copyWeights(weights),
		byID:    make(map[int]*CatalogEntry, len(catalog)),
		byName:  make(map[string]*CatalogEntry, len(catalog)),
	}

	for metricName, row := range e.weights {
		for factor, w := range row {
			if !isFactor(factor) {
				return nil, fmt.Errorf("weight table: metric %q references unknown factor %q", metricName, factor)
			}
			if w < 0 || math.IsNaN(w) {
				return nil, fmt.Errorf("weight table: metric %q has invalid weight %v for %s", metricName, w, factor)
			}
		}
	}

	for i, label := range RankLabels {
		m, ok := multipliers[label]
		if !ok {
			return nil, fmt.Errorf("multiplier table: missing rank %q", label)
		}
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("multiplier table: rank %q must be a positive multiplier, got %v", label, m)
		}
		e.multipliers[i] = m
	}

	e.catalog = make([]CatalogEntry, len(catalog))
	copy(e.catalog, catalog)
	for i := range e.catalog {
		entry := &e.catalog[i]
		if err := ValidateOrder(entry.Order); err != nil {
			return nil, fmt.Errorf("pattern catalog: entry %d (%s): %w", entry.ID, entry.Name, err)
		}
		if _, dup := e.byID[entry.ID]; dup {
			return nil, fmt.Errorf("pattern catalog: duplicate id %d", entry.ID)
		}
		e.byID[entry.ID] = entry
		e.byName[strings.ToLower(entry.Name)] = entry
	}

	return e, nil
}

func copyWeights(weights map[string]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(weights))
	for metricName, row := range weights {
		cp := make(map[string]float64, len(row))
		for factor, w := range row {
			cp[factor] = w
		}
		out[metricName] = cp
	}
	return out
}

// Catalog returns the configured pattern catalog in iteration order.
func (e *Engine) Catalog() []CatalogEntry {
	return e.catalog
}

// MetricsBreakdown exposes the intermediate metrics behind a result for
// explainability.
type MetricsBreakdown struct {
	Curated map[string]float64 `json:"curated"`
	Raw     map[string]float64 `json:"raw"`
}

// PatternResult is the outcome of scoring one bundle against one pattern.
// Factor scores are lower-cased and rounded to two decimals for display.
type PatternResult struct {
	Pattern      PatternRef         `json:"pattern"`
	Factors      map[string]float64 `json:"factors"`
	AlignmentPct float64            `json:"alignment_pct"`
	Metrics      MetricsBreakdown   `json:"normalized_metrics"`
}

// ScoreResponse is the full engine output. All is populated only for
// best-of-catalog scoring, keyed by pattern id.
type ScoreResponse struct {
	Best PatternResult            `json:"best"`
	All  map[string]PatternResult `json:"all,omitempty"`
}

// ScoreOne runs the pipeline for a single pattern.
func (e *Engine) ScoreOne(bundle types.SignalBundle, pattern PatternRef) (PatternResult, error) {
	if err := ValidateOrder(pattern.Order); err != nil {
		return PatternResult{}, err
	}

	raw := NormalizeMetrics(bundle)
	curated := BuildCuratedMetrics(raw)
	bases := e.BaseFactors(curated)
	scores := e.applyPattern(bases, pattern.Order)
	align := e.alignment(scores, pattern.Order)

	factors := make(map[string]float64, len(scores))
	for factor, v := range scores {
		factors[strings.ToLower(factor)] = round2(v)
	}

	return PatternResult{
		Pattern:      pattern,
		Factors:      factors,
		AlignmentPct: round2(align),
		Metrics:      MetricsBreakdown{Curated: curated, Raw: raw},
	}, nil
}

// ScoreAll scores the bundle against every catalog entry and selects the
// one with the strictly greatest alignment. Ties keep the earlier catalog
// entry, so iteration order decides exact ties deterministically.
func (e *Engine) ScoreAll(bundle types.SignalBundle) (ScoreResponse, error) {
	if len(e.catalog) == 0 {
		return ScoreResponse{}, fmt.Errorf("pattern catalog is empty")
	}

	all := make(map[string]PatternResult, len(e.catalog))
	var best PatternResult
	haveBest := false

	for i := range e.catalog {
		entry := &e.catalog[i]
		res, err := e.ScoreOne(bundle, entry.ref())
		if err != nil {
			return ScoreResponse{}, fmt.Errorf("pattern %d (%s): %w", entry.ID, entry.Name, err)
		}
		all[strconv.Itoa(entry.ID)] = res
		if !haveBest || res.AlignmentPct > best.AlignmentPct {
			best = res
			haveBest = true
		}
	}

	return ScoreResponse{Best: best, All: all}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
