package hits

import "gopkg.in/thehowl/go-osuapi.v1"

// Spec is a partial description of a play. Nil fields are unknown and are
// filled in by the reconstruction. Accuracy is a percentage.
type Spec struct {
	Accuracy *float64
	Combo    *int
	Misses   *int
	Score    *int

	N300 *int
	N100 *int
	N50  *int
	Geki *int
	Katu *int

	Mods osuapi.Mods
}

// Int returns a pointer to v, for filling Spec literals.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for filling Spec literals.
func Float(v float64) *float64 { return &v }

// acc returns the spec's accuracy as a fraction in [0, 1], or def when unset.
func (s Spec) acc(def float64) float64 {
	if s.Accuracy == nil {
		return def
	}
	a := *s.Accuracy / 100
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	}
	return a
}
