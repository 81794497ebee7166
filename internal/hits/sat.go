package hits

import "math"

// sub is a subtraction floored at zero.
func sub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nonNeg floors v at zero.
func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// pinned returns the value behind p, floored at zero, or def when p is unset.
func pinned(p *int, def int) int {
	if p == nil {
		return def
	}
	return nonNeg(*p)
}

// roundPoints rounds acc (a fraction) times n times weight to the nearest
// integer, which is how target totals are derived from accuracies.
func roundPoints(acc float64, n, weight int) int {
	return nonNeg(int(math.Round(acc * float64(n*weight))))
}
