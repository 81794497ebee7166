// Command ppsim reconstructs plays described in a YAML scenario file and
// prints them, without needing a database or the osu! API.
//
//	scenarios:
//	  - name: 99% on a 1000 object map
//	    mode: osu
//	    op: targeted
//	    mods: HD
//	    inventory: {circles: 600, sliders: 380, spinners: 20, max_combo: 1500}
//	    spec: {accuracy: 99}
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thehowl/ppsim/internal/hits"
	"gopkg.in/thehowl/go-osuapi.v1"
	"gopkg.in/yaml.v3"
)

type file struct {
	Scenarios []scenario `yaml:"scenarios"`
}

type scenario struct {
	Name      string      `yaml:"name"`
	Mode      string      `yaml:"mode"`
	Op        string      `yaml:"op"`
	Mods      string      `yaml:"mods"`
	Inventory inventory   `yaml:"inventory"`
	Spec      spec        `yaml:"spec"`
	Play      *hitsFields `yaml:"play"`
}

type inventory struct {
	Circles      int `yaml:"circles"`
	Sliders      int `yaml:"sliders"`
	Spinners     int `yaml:"spinners"`
	MaxCombo     int `yaml:"max_combo"`
	Objects      int `yaml:"objects"`
	Fruits       int `yaml:"fruits"`
	Droplets     int `yaml:"droplets"`
	TinyDroplets int `yaml:"tiny_droplets"`
}

type spec struct {
	Accuracy *float64 `yaml:"accuracy"`
	Combo    *int     `yaml:"combo"`
	Misses   *int     `yaml:"misses"`
	Score    *int     `yaml:"score"`
	N300     *int     `yaml:"n300"`
	N100     *int     `yaml:"n100"`
	N50      *int     `yaml:"n50"`
	NGeki    *int     `yaml:"ngeki"`
	NKatu    *int     `yaml:"nkatu"`
}

type hitsFields struct {
	N300  int `yaml:"n300"`
	N100  int `yaml:"n100"`
	N50   int `yaml:"n50"`
	NGeki int `yaml:"ngeki"`
	NKatu int `yaml:"nkatu"`
	Miss  int `yaml:"misses"`
	Combo int `yaml:"combo"`
	Score int `yaml:"score"`
}

func main() {
	var path string
	var verbose bool
	flag.StringVar(&path, "f", "", "scenario file (- for stdin)")
	flag.BoolVar(&verbose, "v", false, "log every reconstruction")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if path == "" {
		fmt.Fprintln(os.Stderr, "-f is required")
		os.Exit(2)
	}
	data, err := readInput(path)
	if err != nil {
		log.Fatal().Err(err).Msg("read scenarios")
	}
	scenarios, err := parse(data)
	if err != nil {
		log.Fatal().Err(err).Msg("parse scenarios")
	}

	failed := false
	for _, sc := range scenarios {
		line, err := run(sc)
		if err != nil {
			log.Error().Err(err).Str("scenario", sc.Name).Msg("rejected")
			failed = true
			continue
		}
		fmt.Println(line)
	}
	if failed {
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func parse(data []byte) ([]scenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Scenarios, nil
}

// run reconstructs sc and formats the result as a single line.
func run(sc scenario) (string, error) {
	mode, ok := hits.ParseMode(sc.Mode)
	if !ok {
		return "", fmt.Errorf("unknown mode %q", sc.Mode)
	}
	mods := osuapi.ParseMods(strings.ToUpper(sc.Mods))
	inv := sc.Inventory.build(mode, mods)

	req, err := sc.request(mode, mods)
	if err != nil {
		return "", err
	}
	p, err := hits.Reconstruct(inv, req)
	if err != nil {
		return "", err
	}
	log.Debug().Str("scenario", sc.Name).Str("op", req.Op.String()).Interface("profile", p).Msg("reconstructed")

	line := fmt.Sprintf("%s: %s %s %.2f%% %dx %s", sc.Name, mode, p, hits.Accuracy(p), p.Combo, hits.AssignGrade(p, mods))
	if mode == hits.ModeMania {
		line += fmt.Sprintf(" score %d", p.Score)
	}
	return line, nil
}

func (inv inventory) build(mode hits.Mode, mods osuapi.Mods) hits.Inventory {
	switch mode {
	case hits.ModeTaiko:
		return hits.NewTaikoInventory(inv.Circles)
	case hits.ModeCatch:
		return hits.NewCatchInventory(inv.Fruits, inv.Droplets, inv.TinyDroplets)
	case hits.ModeMania:
		return hits.NewManiaInventory(inv.Objects, mods)
	}
	return hits.NewStandardInventory(inv.Circles, inv.Sliders, inv.Spinners, inv.MaxCombo)
}

func (sc scenario) request(mode hits.Mode, mods osuapi.Mods) (hits.Request, error) {
	req := hits.Request{
		Spec: hits.Spec{
			Accuracy: sc.Spec.Accuracy,
			Combo:    sc.Spec.Combo,
			Misses:   sc.Spec.Misses,
			Score:    sc.Spec.Score,
			N300:     sc.Spec.N300,
			N100:     sc.Spec.N100,
			N50:      sc.Spec.N50,
			Geki:     sc.Spec.NGeki,
			Katu:     sc.Spec.NKatu,
			Mods:     mods,
		},
	}
	switch strings.ToLower(sc.Op) {
	case "", "targeted", "simulate":
		req.Op = hits.Targeted
	case "perfect", "fc":
		req.Op = hits.Perfect
	case "unchoke", "nochoke":
		req.Op = hits.Unchoke
		if sc.Play != nil {
			req.Play = &hits.Profile{
				Mode:  mode,
				N300:  sc.Play.N300,
				N100:  sc.Play.N100,
				N50:   sc.Play.N50,
				Geki:  sc.Play.NGeki,
				Katu:  sc.Play.NKatu,
				Miss:  sc.Play.Miss,
				Combo: sc.Play.Combo,
				Score: sc.Play.Score,
			}
		}
	default:
		return req, fmt.Errorf("unknown op %q", sc.Op)
	}
	return req, nil
}
