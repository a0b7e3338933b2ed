package analysis

// BaseFactors projects curated metrics onto the four factors using the
// engine's weight table. Each metric's weight row is normalized to sum to
// 1 before its score is distributed. A factor fed by several metrics can
// exceed 100 before the final clamp.
func (e *Engine) BaseFactors(curated map[string]float64) map[string]float64 {
	bases := map[string]float64{
		FactorPrecision:  0,
		FactorResolve:    0,
		FactorInnovation: 0,
		FactorHarmony:    0,
	}

	for name, score := range curated {
		row, ok := e.weights[name]
		if !ok {
			continue
		}
		total := 0.0
		for _, w := range row {
			total += w
		}
		if total == 0 {
			total = 1 // zero row contributes nothing either way
		}
		for factor, w := range row {
			bases[factor] += score * (w / total)
		}
	}

	for factor := range bases {
		bases[factor] = clip(bases[factor], 0, 100)
	}
	return bases
}
