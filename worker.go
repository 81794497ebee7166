package main

import (
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
)

// values of scores.calculated
const (
	pending = iota
	completed
	failedCmd
	failedInvalidReturnFormat
	unsupportedMode
)

type oppaiTask struct {
	ScoreID  int
	FilePath string
	Profile  hits.Profile
	Mods     osuapi.Mods
}

var tasks = make(chan oppaiTask, 500)

// enqueue schedules pp calculation of a stored score. oppai only knows
// osu!standard, anything else is marked as unsupported right away.
func enqueue(t oppaiTask) {
	if t.Profile.Mode != hits.ModeStandard {
		if err := setScore(t.ScoreID, unsupportedMode, 0); err != nil {
			log.Error().Err(err).Int("score_id", t.ScoreID).Msg("mark unsupported")
		}
		return
	}
	tasks <- t
}

// oppaiArgs are the command line arguments describing t to oppai.
func oppaiArgs(t oppaiTask) []string {
	strmods := strings.TrimSpace(t.Mods.String())
	if strmods == "" {
		strmods = "nomod"
	}
	p := t.Profile
	return []string{
		t.FilePath,
		"+" + strings.ToLower(strmods),
		strconv.Itoa(p.Combo) + "x",
		strconv.Itoa(p.Miss) + "m",
		strconv.Itoa(p.N100) + "x100",
		strconv.Itoa(p.N50) + "x50",
	}
}

// Worker is a goroutine that calculates PP.
func Worker() {
	for task := range tasks {
		cmd := exec.Command(cf.OppaiPath, oppaiArgs(task)...)
		log.Debug().Strs("args", cmd.Args).Msg("oppai")
		stdout := bytes.NewBuffer(nil)
		cmd.Stderr = os.Stderr
		cmd.Stdout = stdout
		if err := cmd.Run(); err != nil {
			log.Error().Err(err).Int("score_id", task.ScoreID).Msg("pp calc failed")
			setScore(task.ScoreID, failedCmd, 0)
			continue
		}
		returned := strings.TrimSpace(stdout.String())
		if len(returned) == 0 {
			setScore(task.ScoreID, failedInvalidReturnFormat, 0)
			continue
		}
		returnedF, err := strconv.ParseFloat(returned, 64)
		if err != nil {
			log.Error().Err(err).Int("score_id", task.ScoreID).Str("output", returned).Msg("parse oppai output")
			setScore(task.ScoreID, failedInvalidReturnFormat, 0)
			continue
		}
		if err := setScore(task.ScoreID, completed, returnedF); err != nil {
			log.Error().Err(err).Int("score_id", task.ScoreID).Msg("store pp")
			continue
		}
		log.Info().Int("score_id", task.ScoreID).Float64("pp", returnedF).Msg("calculated")
	}
}

// recalculate enqueues every stored standard score matching where again.
func recalculate(where string, params ...interface{}) {
	rows, err := db.Query(`SELECT scores.id, beatmaps.md5, scores.mods, scores.max_combo,
		scores.count300, scores.count100, scores.count50, scores.misses
	FROM scores
	INNER JOIN beatmaps ON scores.beatmap_id = beatmaps.id
	`+where, params...)
	if err != nil {
		log.Error().Err(err).Msg("recalculate")
		return
	}
	var queue []oppaiTask
	for rows.Next() {
		var (
			t    oppaiTask
			md5  string
			mods int
		)
		t.Profile.Mode = hits.ModeStandard
		err := rows.Scan(&t.ScoreID, &md5, &mods, &t.Profile.Combo,
			&t.Profile.N300, &t.Profile.N100, &t.Profile.N50, &t.Profile.Miss)
		if err != nil {
			log.Error().Err(err).Msg("recalculate")
			continue
		}
		t.Mods = osuapi.Mods(mods)
		t.FilePath = mapPath(md5)
		queue = append(queue, t)
	}
	rows.Close()
	// sending happens after closing the rows, workers need the connection
	for _, t := range queue {
		tasks <- t
	}
	log.Info().Int("scores", len(queue)).Msg("recalculation queued")
}
