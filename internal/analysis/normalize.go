package analysis

import (
	"math"
	"strconv"
	"strings"
)

// Scalar normalizers. Every helper maps an arbitrary raw value onto the
// bounded 0-100 scale and reports absence through its second return value
// instead of an error: a field the provider omitted, or sent in a shape we
// cannot coerce, contributes no metric.

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// toFloat coerces a raw bundle value to a float. Numeric strings and
// booleans are accepted; anything else is absent.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// To100 interprets values <= 1 as fractions and anything larger as an
// already-percent value, clamped to [0, 100].
func To100(v interface{}) (float64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	if f <= 1 {
		f *= 100
	}
	return clip(f, 0, 100), true
}

// Inv100 is the complement of To100, propagating absence.
func Inv100(v interface{}) (float64, bool) {
	f, ok := To100(v)
	if !ok {
		return 0, false
	}
	return 100 - f, true
}

// MinMax rescales v linearly from [lo, hi] onto [0, 100]. A degenerate
// range (lo == hi) yields 0 rather than dividing by zero.
func MinMax(v interface{}, lo, hi float64) (float64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	if lo == hi {
		return 0, true
	}
	return clip((f-lo)/(hi-lo)*100, 0, 100), true
}

// TalkBalanceScore peaks at 100 for a perfectly balanced talk/listen ratio
// of 0.5 and falls off linearly to 0 at either extreme.
func TalkBalanceScore(ratio interface{}) (float64, bool) {
	r, ok := toFloat(ratio)
	if !ok {
		return 0, false
	}
	return clip(100-math.Abs(r-0.5)*200, 0, 100), true
}

type metric struct {
	value float64
	ok    bool
}

func some(v float64) metric { return metric{value: v, ok: true} }

func opt(v float64, ok bool) metric { return metric{value: v, ok: ok} }

var absent = metric{}

// avg averages the present inputs, absent if none are.
func avg(vals ...metric) metric {
	sum, n := 0.0, 0
	for _, m := range vals {
		if m.ok {
			sum += m.value
			n++
		}
	}
	if n == 0 {
		return absent
	}
	return some(sum / float64(n))
}

// wavg is a weighted average over the present inputs; absent when nothing
// is present or the participating weights sum to <= 0.
func wavg(vals []metric, weights []float64) metric {
	var sum, sw float64
	for i, m := range vals {
		if !m.ok || i >= len(weights) {
			continue
		}
		sum += m.value * weights[i]
		sw += weights[i]
	}
	if sw <= 0 {
		return absent
	}
	return some(sum / sw)
}
