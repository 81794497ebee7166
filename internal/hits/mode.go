// Package hits reconstructs complete per-category hit statistics for osu!
// plays from partial information, so that they can be fed to a pp calculator.
package hits

import "strings"

// Mode is an osu! game mode. The values match the ones used by the osu! API
// and by replay files.
type Mode int

// Game modes.
const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

var modeNames = [...]string{"osu", "taiko", "fruits", "mania"}

func (m Mode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// Valid reports whether m is one of the four supported modes.
func (m Mode) Valid() bool {
	return m >= ModeStandard && m <= ModeMania
}

// ParseMode accepts the mode names the osu! website uses, their common
// abbreviations and the numeric form.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "osu", "std", "standard":
		return ModeStandard, true
	case "1", "taiko", "tko":
		return ModeTaiko, true
	case "2", "fruits", "catch", "ctb":
		return ModeCatch, true
	case "3", "mania", "mna":
		return ModeMania, true
	}
	return 0, false
}
