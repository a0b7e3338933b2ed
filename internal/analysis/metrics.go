package analysis

import (
	"strings"

	"github.com/ZanzyTHEbar/bcat-alignment/internal/types"
)

// Sub-metric names produced by NormalizeMetrics. Which keys appear depends
// entirely on which bundle fields the provider supplied.
const (
	MetricPositivity        = "positivity"
	MetricNegativityInv     = "negativity_inv"
	MetricObjectivity       = "objectivity"
	MetricFillerInv         = "filler_inv"
	MetricSentenceLenNorm   = "avg_sentence_len_norm"
	MetricPatienceNorm      = "patience_norm"
	MetricKeywordStrength   = "kw_strength"
	MetricCuriosity         = "lang_emo_curiosity"
	MetricQuestionRatio     = "question_ratio"
	MetricOffensivenessInv  = "offensiveness_inv"
	MetricEnergy            = "energy"
	MetricEmoPos            = "emo_pos"
	MetricEmoNeu            = "emo_neu"
	MetricEmoNegInv         = "emo_neg_inv"
	MetricAttention         = "attention_att"
	MetricAttentionDistInv  = "attention_dist_inv"
	MetricFacialEmoPos      = "facial_emo_pos"
	MetricFacialEmoNeu      = "facial_emo_neu"
	MetricFacialEmoDisInv   = "facial_emo_dis_inv"
	MetricTalkBalance       = "talk_balance"
	MetricSpeedNorm         = "speed_norm"
	MetricActionItems       = "action_items"
	MetricFollowupQuestions = "followup_questions"
)

// classDict coerces a nested class-name -> weight mapping. Values that
// cannot be coerced to floats are dropped from the result, not errored.
func classDict(v interface{}) (map[string]float64, bool) {
	switch raw := v.(type) {
	case map[string]interface{}:
		out := make(map[string]float64, len(raw))
		for k, rv := range raw {
			if f, ok := toFloat(rv); ok {
				out[k] = f
			}
		}
		return out, true
	case map[string]float64:
		return raw, true
	default:
		return nil, false
	}
}

// firstClassDict returns the first non-empty class dict among the named
// fields. The provider has historically shipped the same concept under
// several field names.
func firstClassDict(section map[string]interface{}, fields ...string) (map[string]float64, bool) {
	for _, f := range fields {
		if d, ok := classDict(section[f]); ok && len(d) > 0 {
			return d, true
		}
	}
	return nil, false
}

// NormalizeMetrics converts a raw signal bundle into the flat normalized
// sub-metric set. Each branch is independent: a missing section or an
// uncoercible field simply omits its derived keys.
func NormalizeMetrics(b types.SignalBundle) map[string]float64 {
	out := make(map[string]float64)

	normalizeLanguage(b.Language, out)
	normalizeVocal(b.Vocal, out)
	normalizeFacial(b.Facial, out)
	normalizeInteraction(b.Interaction, out)
	normalizeHighlevel(b.Highlevel, out)

	return out
}

func put(out map[string]float64, key string, m metric) {
	if m.ok {
		out[key] = m.value
	}
}

func normalizeLanguage(L map[string]interface{}, out map[string]float64) {
	if L == nil {
		return
	}

	// Positivity arrives either as a positive/neutral/negative class dict
	// (under any of its historical names) or as a bare scalar.
	pos, hasClasses := firstClassDict(L, "positivity_classes", "polarity")
	if !hasClasses {
		pos, hasClasses = classDict(L["positivity"])
	}
	if hasClasses {
		put(out, MetricPositivity, opt(To100(pos["positive"]+0.5*pos["neutral"])))
		put(out, MetricNegativityInv, opt(Inv100(pos["negative"])))
	} else if v, ok := L["positivity"]; ok {
		put(out, MetricPositivity, opt(To100(v)))
	}

	if obj, ok := classDict(L["objectivity"]); ok {
		put(out, MetricObjectivity, opt(To100(obj["objective"])))
	} else if v, ok := L["objectivity"]; ok {
		put(out, MetricObjectivity, opt(To100(v)))
	}

	if v, ok := L["filler_ratio"]; ok {
		put(out, MetricFillerInv, opt(Inv100(v)))
	}
	if v, ok := L["avg_sentence_len"]; ok {
		put(out, MetricSentenceLenNorm, opt(MinMax(v, 4, 25)))
	}
	if v, ok := L["patience"]; ok {
		put(out, MetricPatienceNorm, opt(MinMax(v, 0, 180)))
	}

	if kw, ok := classDict(L["keywords"]); ok && len(kw) > 0 {
		var vals []metric
		for _, w := range kw {
			vals = append(vals, opt(To100(w)))
		}
		put(out, MetricKeywordStrength, avg(vals...))
	}

	if v, ok := L["lang_emo_curiosity"]; ok {
		put(out, MetricCuriosity, opt(To100(v)))
	}

	if v, ok := L["question_ratio"]; ok {
		put(out, MetricQuestionRatio, opt(To100(v)))
	} else if q, ok := L["question"]; ok {
		put(out, MetricQuestionRatio, opt(To100(questionValue(q))))
	}

	if v, ok := L["offensiveness"]; ok {
		if s, isStr := v.(string); isStr {
			v = boolScalar(strings.HasPrefix(strings.ToLower(s), "offen"))
		}
		put(out, MetricOffensivenessInv, opt(Inv100(v)))
	}
}

// questionValue normalizes the question indicator, which has arrived as a
// "question..." label, a boolean, or a numeric ratio.
func questionValue(q interface{}) float64 {
	if s, ok := q.(string); ok {
		return boolScalar(strings.HasPrefix(strings.ToLower(s), "question"))
	}
	if f, ok := toFloat(q); ok {
		return f
	}
	return 0
}

func boolScalar(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func normalizeVocal(V map[string]interface{}, out map[string]float64) {
	if V == nil {
		return
	}

	if energy, ok := V["energy"]; ok {
		if classes, isDict := classDict(energy); isDict {
			// energetic wins when present; otherwise invert monotonic
			ener := classes["energetic"]
			if ener <= 0 {
				ener = 1 - classes["monotonic"]
			}
			put(out, MetricEnergy, energyScore(ener))
		} else if f, ok := toFloat(energy); ok {
			put(out, MetricEnergy, energyScore(f))
		}
	}

	if emos, ok := classDict(V["emotions"]); ok && len(emos) > 0 {
		if happy, ok := emos["happy"]; ok {
			put(out, MetricEmoPos, opt(To100(happy)))
		}
		if neu, ok := emos["neutral"]; ok {
			put(out, MetricEmoNeu, opt(To100(neu)))
		}
		put(out, MetricEmoNegInv, opt(Inv100(emos["sad"]+emos["angry"])))
	}
}

// energyScore treats raw energy values above 1 as percentages before the
// fraction-aware scaling.
func energyScore(f float64) metric {
	if f > 1 {
		f /= 100
	}
	return opt(To100(f))
}

func normalizeFacial(F map[string]interface{}, out map[string]float64) {
	if F == nil {
		return
	}

	if att, ok := classDict(F["attention"]); ok && len(att) > 0 {
		attentive, hasAtt := att["attentive"]
		normal, hasNorm := att["normal"]
		if hasAtt || hasNorm {
			put(out, MetricAttention, opt(To100(attentive+0.5*normal)))
		}
		if dist, ok := att["distracted"]; ok {
			put(out, MetricAttentionDistInv, opt(Inv100(dist)))
		}
	}

	if emos, ok := classDict(F["emotions"]); ok && len(emos) > 0 {
		if happy, ok := emos["happy"]; ok {
			put(out, MetricFacialEmoPos, opt(To100(happy)))
		}
		put(out, MetricFacialEmoNeu, opt(To100(emos["neutral"]+emos["surprised"])))
		put(out, MetricFacialEmoDisInv, opt(Inv100(emos["dissatisfied"]+emos["annoyed"])))
	}
}

func normalizeInteraction(I map[string]interface{}, out map[string]float64) {
	if I == nil {
		return
	}
	if v, ok := I["talk_listen"]; ok {
		put(out, MetricTalkBalance, opt(TalkBalanceScore(v)))
	}
	if v, ok := I["speed_wpm"]; ok {
		put(out, MetricSpeedNorm, opt(MinMax(v, 90, 180)))
	}
}

func normalizeHighlevel(H map[string]interface{}, out map[string]float64) {
	if H == nil {
		return
	}
	if v, ok := H["action_items"]; ok {
		put(out, MetricActionItems, opt(To100(v)))
	}
	if v, ok := H["followup_questions"]; ok {
		put(out, MetricFollowupQuestions, opt(To100(v)))
	}
}
