package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thehowl/conf"
	"gopkg.in/thehowl/go-osuapi.v1"
)

var db *sql.DB
var api *osuapi.Client
var cf confSt

type confSt struct {
	DSN        string `description:"database dsn (go-mysql-driver dsn, or sqlite file name)"`
	Driver     string `description:"mysql or sqlite"`
	APIKey     string `description:"osu api key"`
	Workers    int
	MapsDir    string `description:"where .osu files are stored"`
	OppaiPath  string `description:"path to the oppai executable"`
	ListenAddr string
	MissLimit  int `description:"default miss limit for nochoke reports, 0 for none"`
	Debug      bool
}

func (c *confSt) setDefaults() {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.Workers == 0 {
		c.Workers = 8
	}
	if c.MapsDir == "" {
		c.MapsDir = "maps"
	}
	if c.OppaiPath == "" {
		c.OppaiPath = "./oppai"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":42043"
	}
}

func main() {
	var recalc string
	flag.StringVar(&recalc, "recalc", "", `use "all" to recalculate all scores, nothing to not recalculate, an username to recalculate only a specific user`)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	err := conf.Load(&cf, "ppsim.conf")
	if err == conf.ErrNoFile {
		cf.setDefaults()
		err = conf.Export(&cf, "ppsim.conf")
		if err != nil {
			panic(err)
		}
		fmt.Println("generated sample ppsim.conf, please set the values appropriately")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load ppsim.conf")
	}
	cf.setDefaults()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cf.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := os.MkdirAll(cf.MapsDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create maps dir")
	}

	// start db connection
	db, err = openDB(cf.Driver, cf.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	// start api client, with a rate limit of 500
	if cf.APIKey != "" {
		osuapi.RateLimit(500)
		api = osuapi.NewClient(cf.APIKey)
		if err := api.Test(); err != nil {
			log.Fatal().Err(err).Msg("osu! api")
		}
	} else {
		log.Warn().Msg("no osu! api key, only uploaded beatmaps can be used")
	}

	// start a few workers
	for i := 0; i < cf.Workers; i++ {
		go Worker()
	}

	const std = "scores.mode = 0"
	switch recalc {
	case "":
		break
	case "all":
		go recalculate("WHERE " + std)
	default:
		go recalculate("WHERE "+std+" AND scores.player = ?", recalc)
	}

	go recalculate("WHERE " + std + " AND scores.calculated = 0")

	if err := setupRouter().Run(cf.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("http")
	}
}

func setupRouter() *gin.Engine {
	app := gin.Default()

	app.POST("/api/v1/beatmap", BeatmapPOST)
	app.POST("/api/v1/score", ScorePOST)
	app.GET("/api/v1/score", ScoreGET)
	app.POST("/api/v1/simulate", SimulatePOST)
	app.GET("/api/v1/perfect", PerfectGET)
	app.GET("/api/v1/nochoke", NochokeGET)
	app.GET("/api/v1/schema", SchemaGET)

	return app
}
