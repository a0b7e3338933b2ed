package analysis

// The ten curated metric names fed to the factor weighting engine.
const (
	CuratedObjectivity        = "objectivity"
	CuratedClarityConciseness = "clarity_conciseness"
	CuratedEnergy             = "energy"
	CuratedDecisionOrient     = "decision_orientation"
	CuratedFollowupQuestions  = "followup_questions"
	CuratedNoveltyIdeation    = "novelty_ideation"
	CuratedAttentionListening = "attention_listening"
	CuratedTalkBalance        = "talk_balance"
	CuratedPatience           = "patience"
	CuratedPositivityTone     = "positivity_tone"
)

// attentionWeights favor the direct attentive signal over the inverted
// distraction signal.
var attentionWeights = []float64{0.7, 0.3}

// BuildCuratedMetrics aggregates the flat normalized sub-metric set into
// the fixed curated set. A curated metric whose every input is absent is
// omitted, never zeroed.
func BuildCuratedMetrics(norm map[string]float64) map[string]float64 {
	get := func(key string) metric {
		v, ok := norm[key]
		return opt(v, ok)
	}

	curated := map[string]metric{
		CuratedObjectivity:        get(MetricObjectivity),
		CuratedClarityConciseness: avg(get(MetricFillerInv), get(MetricSentenceLenNorm)),
		CuratedEnergy:             get(MetricEnergy),
		CuratedDecisionOrient:     get(MetricActionItems),
		CuratedFollowupQuestions:  get(MetricFollowupQuestions),
		CuratedNoveltyIdeation:    avg(get(MetricKeywordStrength), get(MetricCuriosity)),
		CuratedAttentionListening: wavg([]metric{get(MetricAttention), get(MetricAttentionDistInv)}, attentionWeights),
		CuratedTalkBalance:        get(MetricTalkBalance),
		CuratedPatience:           get(MetricPatienceNorm),
		CuratedPositivityTone:     avg(get(MetricPositivity), get(MetricEmoPos), get(MetricEmoNegInv)),
	}

	out := make(map[string]float64, len(curated))
	for name, m := range curated {
		if m.ok {
			out[name] = m.value
		}
	}
	return out
}
