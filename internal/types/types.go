package types

// SignalBundle is the raw multi-modal analytics document for one recorded
// conversation. Every section is optional and section values arrive
// unvalidated from the upstream provider: numbers, strings, or nested
// class-name -> weight maps.
type SignalBundle struct {
	Language    map[string]interface{} `json:"language,omitempty"`
	Vocal       map[string]interface{} `json:"vocal,omitempty"`
	Facial      map[string]interface{} `json:"facial,omitempty"`
	Interaction map[string]interface{} `json:"interaction,omitempty"`
	Highlevel   map[string]interface{} `json:"highlevel,omitempty"`
}

// ScoreRequest is the body of POST /score. At most one pattern selector is
// honored: a literal ordering wins over an id, which wins over a name. With
// no selector the engine searches the whole pattern catalog.
type ScoreRequest struct {
	Spiky       SignalBundle `json:"spiky"`
	PatternID   *int         `json:"pattern_id,omitempty"`
	PatternName string       `json:"pattern_name,omitempty"`
	Pattern     []string     `json:"bcat_pattern,omitempty"`
}
