package main

import (
	"bytes"
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
)

// max 512 kb
const maxOsuFileSize = 1024 * 512

var (
	errBeatmapNotFound = errors.New("beatmap not found")
	errCatchCounts     = errors.New("catch needs fruits, droplets and tiny_droplets")
	errConvert         = errors.New("only osu!standard maps can be converted")
)

// beatmap is a row of the beatmaps table.
type beatmap struct {
	ID       int
	MD5      string
	OsuID    int
	Author   string
	Title    string
	DiffName string
	Creator  string
	Mode     hits.Mode
	Circles  int
	Sliders  int
	Spinners int
	Holds    int
	MaxCombo int
}

// catchCounts are the droplet counts of a catch map, which can't be known
// without computing slider paths and thus come from the caller.
type catchCounts struct {
	Fruits       *int `json:"fruits,omitempty"`
	Droplets     *int `json:"droplets,omitempty"`
	TinyDroplets *int `json:"tiny_droplets,omitempty"`
}

// complete reports whether every count is known.
func (cc catchCounts) complete() bool {
	return cc.Fruits != nil && cc.Droplets != nil && cc.TinyDroplets != nil
}

// parseCatchCounts reads fruits, droplets and tiny_droplets through get,
// which is c.Query or c.PostForm. Counts that are not given stay nil.
func parseCatchCounts(get func(string) string) (catchCounts, error) {
	var cc catchCounts
	for _, f := range []struct {
		name string
		dst  **int
	}{{"fruits", &cc.Fruits}, {"droplets", &cc.Droplets}, {"tiny_droplets", &cc.TinyDroplets}} {
		s := get(f.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return cc, fmt.Errorf("%s must be a non-negative number", f.name)
		}
		*f.dst = &v
	}
	return cc, nil
}

// catchCountsFromPlay estimates the droplet counts of a catch map from a play
// on it. The misses are split between fruits and droplets by the play's own
// ratio.
func catchCountsFromPlay(p hits.Profile, maxCombo int) catchCounts {
	inv := hits.EstimateCatchInventory(p, maxCombo)
	return catchCounts{Fruits: &inv.Fruits, Droplets: &inv.Droplets, TinyDroplets: &inv.TinyDroplets}
}

// BeatmapPOST submits a custom (unsubmitted) beatmap, so that simulations
// and replays on that beatmap can be calculated.
func BeatmapPOST(c *gin.Context) {
	file, _, err := c.Request.FormFile("beatmap")
	if err != nil {
		c.JSON(400, baseResponse{false, "Please upload a .osu file (field beatmap)"})
		return
	}
	defer file.Close()
	rawData, err := io.ReadAll(io.LimitReader(file, maxOsuFileSize+1))
	if err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}
	if len(rawData) > maxOsuFileSize {
		c.JSON(413, baseResponse{false, "Max .osu file size 512kb"})
		return
	}

	if !bytes.HasPrefix(rawData, []byte("osu file format")) {
		c.JSON(400, baseResponse{false, "Not a valid .osu file (must begin with 'osu file format')"})
		return
	}

	md5sum := fmt.Sprintf("%x", md5.Sum(rawData))

	if _, err := beatmapByMD5(md5sum); err == nil {
		c.JSON(400, baseResponse{false, "beatmap already exists in db"})
		return
	}

	if err := os.WriteFile(mapPath(md5sum), rawData, 0o644); err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}

	bm := beatmapFromFile(md5sum, rawData)
	if bm.ID, err = insertBeatmap(bm); err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}

	c.JSON(200, beatmapResponse{baseResponse: baseResponse{Ok: true}, Beatmap: bm})
}

type beatmapResponse struct {
	baseResponse
	Beatmap beatmap `json:"beatmap"`
}

func beatmapFromFile(md5sum string, data []byte) beatmap {
	md := lazyParser(data)
	bm := beatmap{
		MD5:      md5sum,
		Author:   md.author,
		Title:    md.title,
		DiffName: md.diffName,
		Creator:  md.creator,
		Mode:     hits.Mode(md.mode),
		Circles:  md.circles,
		Sliders:  md.sliders,
		Spinners: md.spinners,
		Holds:    md.holds,
	}
	if bm.Mode == hits.ModeTaiko || bm.Mode == hits.ModeMania {
		bm.MaxCombo = md.objects()
	}
	return bm
}

const beatmapColumns = `id, md5, osu_id, author, title, diff_name, creator, mode,
	circles, sliders, spinners, holds, max_combo`

func scanBeatmap(row *sql.Row) (beatmap, error) {
	var bm beatmap
	err := row.Scan(&bm.ID, &bm.MD5, &bm.OsuID, &bm.Author, &bm.Title, &bm.DiffName, &bm.Creator,
		&bm.Mode, &bm.Circles, &bm.Sliders, &bm.Spinners, &bm.Holds, &bm.MaxCombo)
	if err == sql.ErrNoRows {
		return bm, errBeatmapNotFound
	}
	return bm, err
}

func beatmapByMD5(md5sum string) (beatmap, error) {
	return scanBeatmap(db.QueryRow("SELECT "+beatmapColumns+" FROM beatmaps WHERE md5 = ? LIMIT 1", md5sum))
}

func beatmapByOsuID(id int) (beatmap, error) {
	return scanBeatmap(db.QueryRow("SELECT "+beatmapColumns+" FROM beatmaps WHERE osu_id = ? LIMIT 1", id))
}

func insertBeatmap(bm beatmap) (int, error) {
	res, err := db.Exec(`INSERT INTO beatmaps
		(md5, osu_id, author, title, diff_name, creator, mode, circles, sliders, spinners, holds, max_combo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bm.MD5, bm.OsuID, bm.Author, bm.Title, bm.DiffName, bm.Creator, int(bm.Mode),
		bm.Circles, bm.Sliders, bm.Spinners, bm.Holds, bm.MaxCombo)
	if err != nil {
		return 0, fmt.Errorf("insert beatmap: %w", err)
	}
	lid, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert beatmap: %w", err)
	}
	return int(lid), nil
}

// findBeatmap looks the beatmap up in the database first, and falls back to
// the osu! API and website, storing what it finds.
func findBeatmap(gbo osuapi.GetBeatmapsOpts) (beatmap, error) {
	if gbo.BeatmapHash != "" {
		if bm, err := beatmapByMD5(gbo.BeatmapHash); err != errBeatmapNotFound {
			return bm, err
		}
	} else if gbo.BeatmapID != 0 {
		if bm, err := beatmapByOsuID(gbo.BeatmapID); err != errBeatmapNotFound {
			return bm, err
		}
	}
	if api == nil {
		return beatmap{}, errBeatmapNotFound
	}

	beatmaps, err := api.GetBeatmaps(gbo)
	if err != nil {
		return beatmap{}, fmt.Errorf("get beatmaps: %w", err)
	}
	if len(beatmaps) == 0 {
		return beatmap{}, errBeatmapNotFound
	}
	apiMap := beatmaps[0]

	// same file, different lookup key
	if bm, err := beatmapByMD5(apiMap.FileMD5); err != errBeatmapNotFound {
		return bm, err
	}

	data, err := downloadOsuFile(apiMap.BeatmapID, mapPath(apiMap.FileMD5))
	if err != nil {
		return beatmap{}, err
	}
	bm := beatmapFromFile(apiMap.FileMD5, data)
	bm.OsuID = apiMap.BeatmapID
	bm.Author, bm.Title, bm.DiffName, bm.Creator = apiMap.Artist, apiMap.Title, apiMap.DiffName, apiMap.Creator
	if apiMap.MaxCombo > 0 {
		bm.MaxCombo = apiMap.MaxCombo
	}
	bm.ID, err = insertBeatmap(bm)
	return bm, err
}

// inventory builds the hit object inventory of bm played in mode with mods.
// Maps can only be played in another mode when they are osu!standard maps.
func (bm beatmap) inventory(mode hits.Mode, mods osuapi.Mods, cc catchCounts) (hits.Inventory, error) {
	if mode != bm.Mode && bm.Mode != hits.ModeStandard {
		return hits.Inventory{}, errConvert
	}
	switch mode {
	case hits.ModeTaiko:
		return hits.NewTaikoInventory(bm.Circles), nil
	case hits.ModeCatch:
		if !cc.complete() {
			return hits.Inventory{}, errCatchCounts
		}
		return hits.NewCatchInventory(*cc.Fruits, *cc.Droplets, *cc.TinyDroplets), nil
	case hits.ModeMania:
		return hits.NewManiaInventory(bm.Circles+bm.Sliders+bm.Spinners+bm.Holds, mods), nil
	case hits.ModeStandard:
		return hits.NewStandardInventory(bm.Circles, bm.Sliders, bm.Spinners, bm.MaxCombo), nil
	}
	return hits.Inventory{}, hits.ErrUnknownMode
}
