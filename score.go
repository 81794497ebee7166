package main

import (
	"bytes"
	"crypto/md5"
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thehowl/osrtool/osr"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
)

// max 1 mb
const maxReplaySize = 1024 * 1024

type scorePostResponse struct {
	baseResponse
	Play     playJSON  `json:"play"`
	Unchoked *playJSON `json:"unchoked,omitempty"`
}

// replayInfo is what ScorePOST reads out of an osr file.
type replayInfo struct {
	BeatmapHash string
	Player      string
	Mods        osuapi.Mods
	Play        hits.Profile
}

// decodeReplay parses the header of an osr file.
var decodeReplay = func(data []byte) (replayInfo, error) {
	rep, err := osr.Unmarshal(bytes.NewBuffer(data))
	if err != nil {
		return replayInfo{}, err
	}
	return replayInfo{
		BeatmapHash: rep.BeatmapHash,
		Player:      rep.Player,
		Mods:        osuapi.Mods(rep.Mods),
		Play: hits.Profile{
			Mode:  hits.Mode(rep.GameMode),
			N300:  int(rep.Hit300),
			N100:  int(rep.Hit100),
			N50:   int(rep.Hit50),
			Geki:  int(rep.HitGeki),
			Katu:  int(rep.HitKatu),
			Miss:  int(rep.HitMiss),
			Combo: int(rep.MaxCombo),
		},
	}, nil
}

// ScorePOST stores a play from its osr file, together with the play it
// would have been without misses. Catch plays can come with the map's
// fruits, droplets and tiny_droplets; without them the counts are estimated
// from the play.
func ScorePOST(c *gin.Context) {
	file, _, err := c.Request.FormFile("replay")
	if err != nil {
		c.JSON(400, baseResponse{false, "Please upload a replay (field replay)"})
		return
	}
	defer file.Close()
	rawData, err := io.ReadAll(io.LimitReader(file, maxReplaySize+1))
	if err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}
	if len(rawData) > maxReplaySize {
		c.JSON(413, baseResponse{false, "Max replay size 1mb"})
		return
	}
	cc, err := parseCatchCounts(c.PostForm)
	if err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}

	// get osr file data
	rep, err := decodeReplay(rawData)
	if err != nil {
		c.Error(err)
		c.JSON(400, baseResponse{false, "An error occurred while trying to parse your replay. Are you sure it's an .osr file?"})
		return
	}

	bm, err := findBeatmap(osuapi.GetBeatmapsOpts{BeatmapHash: rep.BeatmapHash})
	if err != nil {
		beatmapError(c, err)
		return
	}

	play, mods := rep.Play, rep.Mods
	if !cc.complete() {
		cc = catchCountsFromPlay(play, bm.MaxCombo)
	}
	inv, err := bm.inventory(play.Mode, mods, cc)
	if err != nil {
		c.JSON(400, baseResponse{false, err.Error()})
		return
	}

	md5sum := fmt.Sprintf("%x", md5.Sum(rawData))
	resp := scorePostResponse{}
	scoreID := getScoreIDIfExists(md5sum)
	if scoreID == 0 {
		scoreID, err = insertScore(scoreRow{
			ReplayMD5: md5sum,
			BeatmapID: bm.ID,
			Kind:      kindPlay,
			Player:    rep.Player,
			Mods:      mods,
			Profile:   play,
		})
		if err != nil {
			c.Error(err)
			c.JSON(500, err500)
			return
		}
		enqueue(oppaiTask{ScoreID: scoreID, FilePath: mapPath(bm.MD5), Profile: play, Mods: mods})
	}
	resp.Play = newPlayJSON(scoreID, play, mods)

	if play.Miss > 0 {
		unchoked, err := hits.Reconstruct(inv, hits.Request{Op: hits.Unchoke, Play: &play})
		if err != nil {
			// mania plays are sent back as they are
			log.Debug().Err(err).Str("replay", md5sum).Msg("not unchoking")
		} else {
			unchokedMD5 := md5sum + ":unchoked"
			unchokedID := getScoreIDIfExists(unchokedMD5)
			if unchokedID == 0 {
				unchokedID, err = insertScore(scoreRow{
					ReplayMD5: unchokedMD5,
					BeatmapID: bm.ID,
					Kind:      kindUnchoked,
					Player:    rep.Player,
					Mods:      mods,
					Profile:   unchoked,
				})
				if err != nil {
					c.Error(err)
					c.JSON(500, err500)
					return
				}
				enqueue(oppaiTask{ScoreID: unchokedID, FilePath: mapPath(bm.MD5), Profile: unchoked, Mods: mods})
			}
			u := newPlayJSON(unchokedID, unchoked, mods)
			resp.Unchoked = &u
		}
	}

	resp.Ok = true
	c.JSON(200, resp)
}

type scoreData struct {
	baseResponse
	Calculated int `json:"calculated"`
	Score      struct {
		Player   string  `json:"player"`
		Kind     string  `json:"kind"`
		Mode     string  `json:"mode"`
		Accuracy float64 `json:"accuracy"`
		Grade    string  `json:"grade"`
		Mods     int     `json:"mods"`
		ModsStr  string  `json:"mods_str"`
		Hits     string  `json:"hits"`
		Combo    int     `json:"combo"`
		PP       float64 `json:"pp"`
	} `json:"score"`
	Beatmap struct {
		Author   string `json:"author"`
		Title    string `json:"title"`
		DiffName string `json:"diff_name"`
		Creator  string `json:"creator"`
		MD5      string `json:"md5"`
	} `json:"beatmap"`
}

// ScoreGET retrives data of a score knowing its ID.
func ScoreGET(c *gin.Context) {
	// prepare scoreID
	if c.Query("id") == "" {
		c.JSON(400, baseResponse{false, "Please provide a score ID (param id)"})
		return
	}
	scoreID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(400, baseResponse{false, "Please provide a valid number as the score ID"})
		return
	}

	// get a shitload of data
	var (
		sd   scoreData
		p    hits.Profile
		mode int
	)
	err = db.QueryRow(`
	SELECT
		scores.player, scores.kind, scores.mode, scores.accuracy, scores.grade, scores.mods,
		scores.max_combo, scores.count300, scores.count100, scores.count50,
		scores.count_geki, scores.count_katu, scores.misses, scores.score,
		scores.calculated, scores.total_pp,
		beatmaps.author, beatmaps.title, beatmaps.diff_name,
		beatmaps.creator, beatmaps.md5
	FROM scores
	LEFT JOIN beatmaps
		ON scores.beatmap_id = beatmaps.id
	WHERE scores.id = ?
	LIMIT 1`, scoreID).Scan(
		&sd.Score.Player, &sd.Score.Kind, &mode, &sd.Score.Accuracy, &sd.Score.Grade, &sd.Score.Mods,
		&p.Combo, &p.N300, &p.N100, &p.N50,
		&p.Geki, &p.Katu, &p.Miss, &p.Score,
		&sd.Calculated, &sd.Score.PP,
		&sd.Beatmap.Author, &sd.Beatmap.Title, &sd.Beatmap.DiffName,
		&sd.Beatmap.Creator, &sd.Beatmap.MD5,
	)
	if err == sql.ErrNoRows {
		c.JSON(404, baseResponse{false, "That score could not be found!"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}
	p.Mode = hits.Mode(mode)
	sd.Score.Mode = p.Mode.String()
	sd.Score.Hits = p.String()
	sd.Score.Combo = p.Combo
	sd.Score.ModsStr = modsString(osuapi.Mods(sd.Score.Mods))
	sd.Ok = true
	c.JSON(200, sd)
}
