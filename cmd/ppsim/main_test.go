package main

import (
	"errors"
	"testing"

	"github.com/thehowl/ppsim/internal/hits"
)

const testScenarios = `
scenarios:
  - name: ninety nine
    mode: osu
    inventory: {circles: 1000, max_combo: 1000}
    spec: {accuracy: 99}
  - name: choke
    mode: taiko
    op: unchoke
    inventory: {circles: 500}
    play: {n300: 450, n100: 40, misses: 10, combo: 200}
  - name: ss
    mode: fruits
    op: perfect
    mods: HD
    inventory: {fruits: 300, droplets: 100, tiny_droplets: 50}
  - name: mania ez
    mode: mania
    mods: EZ
    inventory: {objects: 800}
  - name: mania acc
    mode: mania
    inventory: {objects: 800}
    spec: {accuracy: 97}
`

func TestRunScenarios(t *testing.T) {
	scenarios, err := parse([]byte(testScenarios))
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 5 {
		t.Fatalf("got %d scenarios, want 5", len(scenarios))
	}
	want := []string{
		"ninety nine: osu {985/15/0/0} 99.00% 1000x S",
		"choke: taiko {459/41/0} 95.90% 500x S",
		"ss: fruits {300/100/50/0} 100.00% 400x XH",
		"mania ez: mania {800/0/0/0/0/0} 100.00% 0x X score 500000",
	}
	for i, w := range want {
		got, err := run(scenarios[i])
		if err != nil {
			t.Errorf("%s: %v", scenarios[i].Name, err)
			continue
		}
		if got != w {
			t.Errorf("run(%s) = %q, want %q", scenarios[i].Name, got, w)
		}
	}
	if _, err := run(scenarios[4]); !errors.Is(err, hits.ErrInvalidMode) {
		t.Errorf("mania accuracy: err = %v, want %v", err, hits.ErrInvalidMode)
	}
}

func TestRequestUnknownOp(t *testing.T) {
	if _, err := (scenario{Op: "explode"}).request(hits.ModeStandard, 0); err == nil {
		t.Error("expected an error for an unknown op")
	}
}
