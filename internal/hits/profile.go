package hits

import (
	"fmt"
	"strings"
)

// Profile is a complete set of judgements for one play, laid out the way
// osu! stores scores. On catch N300 holds fruits, N100 droplets, N50 tiny
// droplets and Katu tiny droplet misses. Score is only meaningful on mania.
type Profile struct {
	Mode Mode

	N300 int
	N100 int
	N50  int
	Geki int
	Katu int
	Miss int

	Combo int
	Score int
}

// Fruits is the number of caught fruits of a catch profile.
func (p Profile) Fruits() int { return p.N300 }

// Droplets is the number of caught droplets of a catch profile.
func (p Profile) Droplets() int { return p.N100 }

// TinyDroplets is the number of caught tiny droplets of a catch profile.
func (p Profile) TinyDroplets() int { return p.N50 }

// TinyDropletMisses is the number of missed tiny droplets of a catch profile.
func (p Profile) TinyDropletMisses() int { return p.Katu }

// Passed sums every judgement of the profile's mode, misses included. Tiny
// droplets do not count as objects on catch.
func (p Profile) Passed() int {
	switch p.Mode {
	case ModeTaiko, ModeCatch:
		return p.N300 + p.N100 + p.Miss
	case ModeMania:
		return p.Geki + p.N300 + p.Katu + p.N100 + p.N50 + p.Miss
	default:
		return p.N300 + p.N100 + p.N50 + p.Miss
	}
}

// Conserved reports whether p accounts for every element of inv exactly. On
// catch neither fruits nor droplets may exceed the map's count.
func (p Profile) Conserved(inv Inventory) bool {
	if p.Mode != inv.Mode || p.Passed() != inv.Total() {
		return false
	}
	if p.Mode == ModeCatch {
		return p.N300 <= inv.Fruits && p.N100 <= inv.Droplets &&
			p.N50+p.Katu == inv.TinyDroplets
	}
	return true
}

// String formats the judgements like the in-game results screen,
// e.g. {985/15/0/0}.
func (p Profile) String() string {
	var parts []int
	switch p.Mode {
	case ModeTaiko:
		parts = []int{p.N300, p.N100, p.Miss}
	case ModeCatch:
		parts = []int{p.N300, p.N100, p.N50, p.Miss}
	case ModeMania:
		parts = []int{p.Geki, p.N300, p.Katu, p.N100, p.N50, p.Miss}
	default:
		parts = []int{p.N300, p.N100, p.N50, p.Miss}
	}
	strs := make([]string, len(parts))
	for i, v := range parts {
		strs[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(strs, "/") + "}"
}
