// Package config defines the service configuration: HTTP settings plus the
// three scoring tables (weight table, multiplier table, pattern catalog).
// Defaults are compiled in; a YAML file and BCAT_-prefixed environment
// variables may override them. The tables are snapshotted into the engine
// at startup and treated as immutable from then on.
package config

// PatternEntry is one catalog entry: an identifier, a display name, and
// the factor ordering from primary to quaternary rank.
type PatternEntry struct {
	ID    int      `koanf:"id" json:"id"`
	Name  string   `koanf:"name" json:"name"`
	Order []string `koanf:"order" json:"order"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AllowedOrigins configures CORS for the score API.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// RequestTimeoutSeconds bounds a single score request.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`

	// MaxRequestsPerMin is the per-IP rate limit.
	MaxRequestsPerMin int `koanf:"max_requests_per_min"`

	// CacheTTLSeconds is the TTL for cached score responses. Zero
	// disables the response cache.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// Weights maps each curated metric to its per-factor weight row.
	// Rows need not cover all four factors and need not sum to 1.
	Weights map[string]map[string]float64 `koanf:"weights"`

	// Multipliers maps the four rank labels to positive multipliers.
	Multipliers map[string]float64 `koanf:"multipliers"`

	// Patterns is the pattern catalog, canonically all 24 permutations
	// of the four factors.
	Patterns []PatternEntry `koanf:"patterns"`
}

// New returns a Config carrying the canonical defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		AllowedOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeoutSeconds: 30,
		MaxRequestsPerMin:     60,
		CacheTTLSeconds:       900,
		Weights:               defaultWeights(),
		Multipliers:           defaultMultipliers(),
		Patterns:              defaultPatterns(),
	}
}

func defaultWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"objectivity":          {"Precision": 0.8, "Innovation": 0.2},
		"clarity_conciseness":  {"Precision": 1.0},
		"energy":               {"Resolve": 0.7, "Innovation": 0.3},
		"decision_orientation": {"Resolve": 1.0},
		"followup_questions":   {"Precision": 0.4, "Harmony": 0.6},
		"novelty_ideation":     {"Innovation": 1.0},
		"attention_listening":  {"Harmony": 1.0},
		"talk_balance":         {"Harmony": 1.0},
		"patience":             {"Precision": 0.5, "Harmony": 0.5},
		"positivity_tone":      {"Resolve": 0.3, "Harmony": 0.7},
	}
}

func defaultMultipliers() map[string]float64 {
	return map[string]float64{
		"primary":    1.0,
		"secondary":  0.8,
		"tertiary":   0.6,
		"quaternary": 0.4,
	}
}

// defaultPatterns enumerates all 24 rank orderings of the four factors,
// each under its archetype name.
func defaultPatterns() []PatternEntry {
	names := []string{
		"Auditor", "Examiner", "Architect", "Specifier", "Planner", "Analyst",
		"Commander", "Executor", "Driver", "Finisher", "Operator", "Closer",
		"Inventor", "Experimenter", "Pioneer", "Explorer", "Visionary", "Catalyst",
		"Mediator", "Diplomat", "Facilitator", "Coach", "Counselor", "Ambassador",
	}

	factors := []string{"Precision", "Resolve", "Innovation", "Harmony"}
	entries := make([]PatternEntry, 0, len(names))
	id := 0
	for _, primary := range factors {
		rest := without(factors, primary)
		for _, secondary := range rest {
			rest2 := without(rest, secondary)
			for _, tertiary := range rest2 {
				quaternary := without(rest2, tertiary)[0]
				entries = append(entries, PatternEntry{
					ID:    id + 1,
					Name:  names[id],
					Order: []string{primary, secondary, tertiary, quaternary},
				})
				id++
			}
		}
	}
	return entries
}

func without(xs []string, drop string) []string {
	out := make([]string, 0, len(xs)-1)
	for _, x := range xs {
		if x != drop {
			out = append(out, x)
		}
	}
	return out
}
