package main

import (
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
)

type baseResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

var err500 = baseResponse{false, "An error occurred"}

// playJSON is a profile as returned by the API, along with what the
// presentation layer needs to show it.
type playJSON struct {
	ScoreID  int     `json:"score_id,omitempty"`
	Mode     string  `json:"mode"`
	Hits     string  `json:"hits"`
	N300     int     `json:"n300"`
	N100     int     `json:"n100"`
	N50      int     `json:"n50"`
	NGeki    int     `json:"ngeki"`
	NKatu    int     `json:"nkatu"`
	Misses   int     `json:"misses"`
	Combo    int     `json:"combo"`
	Score    int     `json:"score,omitempty"`
	Accuracy float64 `json:"accuracy"`
	Grade    string  `json:"grade"`
	Mods     string  `json:"mods"`
	PP       float64 `json:"pp,omitempty"`
}

func newPlayJSON(scoreID int, p hits.Profile, mods osuapi.Mods) playJSON {
	return playJSON{
		ScoreID:  scoreID,
		Mode:     p.Mode.String(),
		Hits:     p.String(),
		N300:     p.N300,
		N100:     p.N100,
		N50:      p.N50,
		NGeki:    p.Geki,
		NKatu:    p.Katu,
		Misses:   p.Miss,
		Combo:    p.Combo,
		Score:    p.Score,
		Accuracy: hits.Accuracy(p),
		Grade:    hits.AssignGrade(p, mods).String(),
		Mods:     modsString(mods),
	}
}

func modsString(m osuapi.Mods) string {
	s := m.String()
	if s == "" {
		return "NM"
	}
	return s
}
