package main

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
	_ "modernc.org/sqlite"
)

// kinds of rows in the scores table
const (
	kindPlay      = "play"
	kindSimulated = "simulated"
	kindUnchoked  = "unchoked"
	kindPerfect   = "perfect"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS beatmaps (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		md5 VARCHAR(32) NOT NULL UNIQUE,
		osu_id INT NOT NULL DEFAULT 0,
		author VARCHAR(255) NOT NULL DEFAULT '',
		title VARCHAR(255) NOT NULL DEFAULT '',
		diff_name VARCHAR(255) NOT NULL DEFAULT '',
		creator VARCHAR(255) NOT NULL DEFAULT '',
		mode TINYINT NOT NULL DEFAULT 0,
		circles INT NOT NULL DEFAULT 0,
		sliders INT NOT NULL DEFAULT 0,
		spinners INT NOT NULL DEFAULT 0,
		holds INT NOT NULL DEFAULT 0,
		max_combo INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		replay_md5 VARCHAR(64) NOT NULL DEFAULT '',
		beatmap_id INT NOT NULL,
		report_id VARCHAR(36) NOT NULL DEFAULT '',
		kind VARCHAR(16) NOT NULL DEFAULT 'play',
		player VARCHAR(64) NOT NULL DEFAULT '',
		mode TINYINT NOT NULL DEFAULT 0,
		accuracy DOUBLE NOT NULL DEFAULT 0,
		grade VARCHAR(2) NOT NULL DEFAULT '',
		mods INT NOT NULL DEFAULT 0,
		max_combo INT NOT NULL DEFAULT 0,
		count300 INT NOT NULL DEFAULT 0,
		count100 INT NOT NULL DEFAULT 0,
		count50 INT NOT NULL DEFAULT 0,
		count_geki INT NOT NULL DEFAULT 0,
		count_katu INT NOT NULL DEFAULT 0,
		misses INT NOT NULL DEFAULT 0,
		score INT NOT NULL DEFAULT 0,
		calculated TINYINT NOT NULL DEFAULT 0,
		total_pp DOUBLE NOT NULL DEFAULT 0
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS beatmaps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		md5 TEXT NOT NULL UNIQUE,
		osu_id INTEGER NOT NULL DEFAULT 0,
		author TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		diff_name TEXT NOT NULL DEFAULT '',
		creator TEXT NOT NULL DEFAULT '',
		mode INTEGER NOT NULL DEFAULT 0,
		circles INTEGER NOT NULL DEFAULT 0,
		sliders INTEGER NOT NULL DEFAULT 0,
		spinners INTEGER NOT NULL DEFAULT 0,
		holds INTEGER NOT NULL DEFAULT 0,
		max_combo INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		replay_md5 TEXT NOT NULL DEFAULT '',
		beatmap_id INTEGER NOT NULL,
		report_id TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT 'play',
		player TEXT NOT NULL DEFAULT '',
		mode INTEGER NOT NULL DEFAULT 0,
		accuracy REAL NOT NULL DEFAULT 0,
		grade TEXT NOT NULL DEFAULT '',
		mods INTEGER NOT NULL DEFAULT 0,
		max_combo INTEGER NOT NULL DEFAULT 0,
		count300 INTEGER NOT NULL DEFAULT 0,
		count100 INTEGER NOT NULL DEFAULT 0,
		count50 INTEGER NOT NULL DEFAULT 0,
		count_geki INTEGER NOT NULL DEFAULT 0,
		count_katu INTEGER NOT NULL DEFAULT 0,
		misses INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		calculated INTEGER NOT NULL DEFAULT 0,
		total_pp REAL NOT NULL DEFAULT 0
	)`,
}

// openDB connects to the configured database and makes sure the tables exist.
func openDB(driver, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// every connection to :memory: is its own database
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := createTables(conn, driver); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func createTables(conn *sql.DB, driver string) error {
	schema := mysqlSchema
	if driver == "sqlite" {
		schema = sqliteSchema
	}
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// scoreRow is a play, real or reconstructed, as stored in the scores table.
type scoreRow struct {
	ReplayMD5 string
	BeatmapID int
	ReportID  string
	Kind      string
	Player    string
	Mods      osuapi.Mods
	Profile   hits.Profile
}

func insertScore(s scoreRow) (int, error) {
	p := s.Profile
	res, err := db.Exec(`INSERT INTO scores
		(replay_md5, beatmap_id, report_id, kind, player, mode, accuracy, grade, mods, max_combo,
		count300, count100, count50, count_geki, count_katu, misses, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ReplayMD5, s.BeatmapID, s.ReportID, s.Kind, s.Player, int(p.Mode),
		hits.Accuracy(p), hits.AssignGrade(p, s.Mods).String(), int(s.Mods), p.Combo,
		p.N300, p.N100, p.N50, p.Geki, p.Katu, p.Miss, p.Score)
	if err != nil {
		return 0, fmt.Errorf("insert score: %w", err)
	}
	lid, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert score: %w", err)
	}
	return int(lid), nil
}

func getScoreIDIfExists(md5 string) int {
	// suppress errors because yolo
	var scoreID int
	db.QueryRow("SELECT id FROM scores WHERE replay_md5 = ? LIMIT 1", md5).Scan(&scoreID)
	return scoreID
}

func setScore(scoreID, calculatedStatus int, pp float64) error {
	_, err := db.Exec("UPDATE scores SET calculated = ?, total_pp = ? WHERE id = ?", calculatedStatus, pp, scoreID)
	return err
}
