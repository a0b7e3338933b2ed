package analysis

import "math"

// applyPattern scales each base factor score by the multiplier for the
// rank the pattern assigns it, clamping back to [0, 100]. The order must
// already be validated as a 4-permutation.
func (e *Engine) applyPattern(bases map[string]float64, order []string) map[string]float64 {
	rankOf := make(map[string]int, len(order))
	for i, factor := range order {
		rankOf[factor] = i
	}

	out := make(map[string]float64, len(bases))
	for factor, base := range bases {
		out[factor] = clip(base*e.multipliers[rankOf[factor]], 0, 100)
	}
	return out
}

// alignment computes the cosine similarity between the rank-multiplied
// factor vector, ordered by the pattern, and the L2-normalized multiplier
// shape, scaled to a percentage. Zero-norm vectors floor the divisor at 1,
// yielding 0 rather than dividing by zero.
//
// The subject vector has already been shaped by the same multipliers it is
// compared against, so alignment rewards rank assignments that put the
// naturally strongest factor in the primary slot.
func (e *Engine) alignment(scores map[string]float64, order []string) float64 {
	var tnorm float64
	for _, m := range e.multipliers {
		tnorm += m * m
	}
	tnorm = math.Sqrt(tnorm)
	if tnorm == 0 {
		tnorm = 1
	}

	var dot, snorm float64
	for i, factor := range order {
		s := scores[factor]
		dot += s * (e.multipliers[i] / tnorm)
		snorm += s * s
	}
	snorm = math.Sqrt(snorm)
	if snorm == 0 {
		snorm = 1
	}

	return clip(dot/snorm*100, 0, 100)
}
