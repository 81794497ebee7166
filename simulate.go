package main

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
)

// simulateRequest is the body of POST /api/v1/simulate. Every hit count is
// optional; whatever is missing gets reconstructed.
type simulateRequest struct {
	BeatmapID   int    `json:"beatmap_id,omitempty" jsonschema:"description=osu! beatmap ID"`
	BeatmapHash string `json:"beatmap_hash,omitempty" jsonschema:"description=md5 of the .osu file"`
	Mode        string `json:"mode,omitempty" jsonschema:"enum=osu,enum=taiko,enum=fruits,enum=mania"`
	Mods        string `json:"mods,omitempty" jsonschema:"example=HDDT"`

	Accuracy *float64 `json:"accuracy,omitempty" jsonschema:"minimum=0,maximum=100"`
	Combo    *int     `json:"combo,omitempty" jsonschema:"minimum=0"`
	Misses   *int     `json:"misses,omitempty" jsonschema:"minimum=0"`
	Score    *int     `json:"score,omitempty" jsonschema:"minimum=0,description=mania only"`
	N300     *int     `json:"n300,omitempty" jsonschema:"minimum=0"`
	N100     *int     `json:"n100,omitempty" jsonschema:"minimum=0"`
	N50      *int     `json:"n50,omitempty" jsonschema:"minimum=0"`
	NGeki    *int     `json:"ngeki,omitempty" jsonschema:"minimum=0"`
	NKatu    *int     `json:"nkatu,omitempty" jsonschema:"minimum=0"`

	catchCounts
}

// validate checks the ranges the reconstruction expects its inputs to be in.
func (r simulateRequest) validate() error {
	if r.Accuracy != nil && (*r.Accuracy < 0 || *r.Accuracy > 100) {
		return errors.New("accuracy must be between 0 and 100")
	}
	for name, v := range map[string]*int{
		"combo": r.Combo, "misses": r.Misses, "score": r.Score,
		"n300": r.N300, "n100": r.N100, "n50": r.N50, "ngeki": r.NGeki, "nkatu": r.NKatu,
		"fruits": r.Fruits, "droplets": r.Droplets, "tiny_droplets": r.TinyDroplets,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s can't be negative", name)
		}
	}
	return nil
}

func (r simulateRequest) spec() hits.Spec {
	return hits.Spec{
		Accuracy: r.Accuracy,
		Combo:    r.Combo,
		Misses:   r.Misses,
		Score:    r.Score,
		N300:     r.N300,
		N100:     r.N100,
		N50:      r.N50,
		Geki:     r.NGeki,
		Katu:     r.NKatu,
		Mods:     osuapi.ParseMods(strings.ToUpper(r.Mods)),
	}
}

func (r simulateRequest) beatmapOpts() (osuapi.GetBeatmapsOpts, bool) {
	var gbo osuapi.GetBeatmapsOpts
	switch {
	case r.BeatmapHash != "":
		gbo.BeatmapHash = r.BeatmapHash
	case r.BeatmapID != 0:
		gbo.BeatmapID = r.BeatmapID
	default:
		return gbo, false
	}
	return gbo, true
}

// hash identifies a simulation, so that the same request is only stored once.
func (r simulateRequest) hash(op hits.Operation, bm beatmap) string {
	data, _ := json.Marshal(r)
	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join([]string{op.String(), bm.MD5, string(data)}, ":"))))
}

type simulateResponse struct {
	baseResponse
	Beatmap beatmap  `json:"beatmap"`
	Play    playJSON `json:"play"`
}

// SimulatePOST reconstructs a play out of the partial information in the
// request body.
func SimulatePOST(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, baseResponse{false, "Invalid request body: " + err.Error()})
		return
	}
	simulate(c, hits.Targeted, req)
}

// PerfectGET returns the best possible play on a beatmap.
func PerfectGET(c *gin.Context) {
	req := simulateRequest{
		BeatmapHash: c.Query("beatmap_hash"),
		Mode:        c.Query("mode"),
		Mods:        c.Query("mods"),
	}
	if s := c.Query("beatmap_id"); s != "" {
		var err error
		if req.BeatmapID, err = strconv.Atoi(s); err != nil {
			c.JSON(400, baseResponse{false, "Please provide parameters as specified in the API"})
			return
		}
	}
	cc, err := parseCatchCounts(c.Query)
	if err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}
	req.catchCounts = cc
	simulate(c, hits.Perfect, req)
}

func simulate(c *gin.Context, op hits.Operation, req simulateRequest) {
	if err := req.validate(); err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}
	gbo, ok := req.beatmapOpts()
	if !ok {
		c.JSON(400, baseResponse{false, "Must provide either beatmap_hash or beatmap_id"})
		return
	}
	bm, err := findBeatmap(gbo)
	if err != nil {
		beatmapError(c, err)
		return
	}

	mode := bm.Mode
	if req.Mode != "" {
		if mode, ok = hits.ParseMode(req.Mode); !ok {
			c.JSON(400, baseResponse{false, "Unknown mode " + req.Mode})
			return
		}
	}
	spec := req.spec()
	inv, err := bm.inventory(mode, spec.Mods, req.catchCounts)
	if err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}

	profile, err := hits.Reconstruct(inv, hits.Request{Op: op, Spec: spec})
	if err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}

	kind := kindSimulated
	if op == hits.Perfect {
		kind = kindPerfect
	}
	scoreMD5 := req.hash(op, bm)
	scoreID := getScoreIDIfExists(scoreMD5)
	if scoreID == 0 {
		scoreID, err = insertScore(scoreRow{
			ReplayMD5: scoreMD5,
			BeatmapID: bm.ID,
			Kind:      kind,
			Mods:      spec.Mods,
			Profile:   profile,
		})
		if err != nil {
			c.Error(err)
			c.JSON(500, err500)
			return
		}
		enqueue(oppaiTask{ScoreID: scoreID, FilePath: mapPath(bm.MD5), Profile: profile, Mods: spec.Mods})
	}

	resp := simulateResponse{Beatmap: bm, Play: newPlayJSON(scoreID, profile, spec.Mods)}
	resp.Ok = true
	c.JSON(200, resp)
}

// beatmapError responds to a failed beatmap lookup.
func beatmapError(c *gin.Context, err error) {
	if errors.Is(err, errBeatmapNotFound) {
		c.JSON(404, baseResponse{false, "That beatmap couldn't be found!"})
		return
	}
	c.Error(err)
	c.JSON(500, baseResponse{false, "Couldn't get beatmap from osu!"})
}
