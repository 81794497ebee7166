package main

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thehowl/ppsim/internal/hits"
	"golang.org/x/sync/errgroup"
	"gopkg.in/thehowl/go-osuapi.v1"
)

type nochokeEntry struct {
	Index     int       `json:"index"`
	BeatmapID int       `json:"beatmap_id"`
	Original  playJSON  `json:"original"`
	Unchoked  *playJSON `json:"unchoked,omitempty"`
	Skipped   string    `json:"skipped,omitempty"`
}

type nochokeResponse struct {
	baseResponse
	ReportID   string         `json:"report_id"`
	User       string         `json:"user"`
	Mode       string         `json:"mode"`
	WeightedPP float64        `json:"weighted_pp"`
	Scores     []nochokeEntry `json:"scores"`
}

// NochokeGET unchokes the top scores of a user. Unchoked standard scores get
// their pp calculated in the background, and can be fetched by score_id.
func NochokeGET(c *gin.Context) {
	user := c.Query("u")
	if user == "" {
		c.JSON(400, baseResponse{false, "Please provide a user (param u)"})
		return
	}
	mode, ok := hits.ParseMode(c.Query("m"))
	if !ok {
		c.JSON(400, baseResponse{false, "Unknown mode " + c.Query("m")})
		return
	}
	if mode == hits.ModeMania {
		c.JSON(400, baseResponse{false, "Mania scores can't be unchoked"})
		return
	}
	missLimit := cf.MissLimit
	if s := c.Query("miss_limit"); s != "" {
		var err error
		if missLimit, err = strconv.Atoi(s); err != nil || missLimit < 0 {
			c.JSON(400, baseResponse{false, "Please provide a valid miss limit"})
			return
		}
	}
	if api == nil {
		c.JSON(503, baseResponse{false, "The osu! API is not configured"})
		return
	}

	scores, err := api.GetUserBest(osuapi.GetUserScoresOpts{
		Username: user,
		Mode:     osuapi.Mode(mode),
		Limit:    100,
	})
	if err != nil {
		c.Error(err)
		c.JSON(500, baseResponse{false, "Couldn't get scores from osu!"})
		return
	}

	resp := nochokeResponse{
		ReportID: uuid.New().String(),
		User:     user,
		Mode:     mode.String(),
		Scores:   make([]nochokeEntry, len(scores)),
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(max(cf.Workers, 1))
	for i, s := range scores {
		i, s := i, s
		g.Go(func() error {
			entry, err := unchokeScore(ctx, resp.ReportID, mode, s, missLimit)
			if err != nil {
				return err
			}
			entry.Index = i + 1
			resp.Scores[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.Error(err)
		c.JSON(500, err500)
		return
	}

	for i, s := range scores {
		resp.WeightedPP += s.PP * math.Pow(0.95, float64(i))
	}
	log.Info().Str("user", user).Str("report", resp.ReportID).Int("scores", len(scores)).Msg("nochoke report")
	resp.Ok = true
	c.JSON(200, resp)
}

// unchokeScore reconstructs a single top score without its misses and stores
// the result under reportID.
func unchokeScore(ctx context.Context, reportID string, mode hits.Mode, s osuapi.GUSScore, missLimit int) (nochokeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nochokeEntry{}, err
	}
	play := hits.Profile{
		Mode:  mode,
		N300:  s.Count300,
		N100:  s.Count100,
		N50:   s.Count50,
		Geki:  s.CountGeki,
		Katu:  s.CountKatu,
		Miss:  s.CountMiss,
		Combo: s.MaxCombo,
		Score: int(s.Score.Score),
	}
	entry := nochokeEntry{BeatmapID: s.BeatmapID, Original: newPlayJSON(0, play, s.Mods)}
	entry.Original.PP = s.PP

	if missLimit > 0 && play.Miss > missLimit {
		entry.Skipped = "too many misses"
		return entry, nil
	}

	bm, err := findBeatmap(osuapi.GetBeatmapsOpts{BeatmapID: s.BeatmapID})
	if errors.Is(err, errBeatmapNotFound) {
		entry.Skipped = "beatmap not found"
		return entry, nil
	}
	if err != nil {
		return entry, err
	}
	inv, err := bm.inventory(mode, s.Mods, catchCountsFromPlay(play, bm.MaxCombo))
	if err != nil {
		entry.Skipped = err.Error()
		return entry, nil
	}

	unchoked, err := hits.Reconstruct(inv, hits.Request{Op: hits.Unchoke, Play: &play})
	if err != nil {
		entry.Skipped = err.Error()
		return entry, nil
	}

	scoreID, err := insertScore(scoreRow{
		BeatmapID: bm.ID,
		ReportID:  reportID,
		Kind:      kindUnchoked,
		Mods:      s.Mods,
		Profile:   unchoked,
	})
	if err != nil {
		return entry, err
	}
	enqueue(oppaiTask{ScoreID: scoreID, FilePath: mapPath(bm.MD5), Profile: unchoked, Mods: s.Mods})

	u := newPlayJSON(scoreID, unchoked, s.Mods)
	entry.Unchoked = &u
	return entry, nil
}
