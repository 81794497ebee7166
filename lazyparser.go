package main

import (
	"strconv"
	"strings"
)

// hit object type bits, as written in the [HitObjects] section.
const (
	objCircle  = 1
	objSlider  = 2
	objSpinner = 8
	objHold    = 128
)

type metadata struct {
	author   string
	title    string
	diffName string
	creator  string

	mode     int
	circles  int
	sliders  int
	spinners int
	holds    int
}

// objects is the number of hit objects of any kind.
func (md metadata) objects() int {
	return md.circles + md.sliders + md.spinners + md.holds
}

// lazyParser gets basic beatmap info from a beatmap file: metadata, mode and
// how many hit objects of each kind there are. Possibly using the laziest
// methods you've ever seen.
func lazyParser(dataB []byte) metadata {
	var md metadata
	var sec string
	data := string(dataB)
	lines := strings.Split(data, "\n")
	for _, line := range lines {
		line = strings.Trim(line, "\r ")
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			sec = line
			continue
		}
		switch sec {
		case "[General]":
			key, value, ok := strings.Cut(line, ":")
			if ok && strings.TrimSpace(key) == "Mode" {
				md.mode, _ = strconv.Atoi(strings.TrimSpace(value))
			}
		case "[Metadata]":
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.Trim(value, " ")
			switch key {
			case "Title":
				md.title = value
			case "Artist":
				md.author = value
			case "Creator":
				md.creator = value
			case "Version":
				md.diffName = value
			}
		case "[HitObjects]":
			parts := strings.SplitN(line, ",", 5)
			if len(parts) < 4 {
				continue
			}
			typ, err := strconv.Atoi(parts[3])
			if err != nil {
				continue
			}
			switch {
			case typ&objCircle != 0:
				md.circles++
			case typ&objSlider != 0:
				md.sliders++
			case typ&objSpinner != 0:
				md.spinners++
			case typ&objHold != 0:
				md.holds++
			}
		}
	}
	return md
}
