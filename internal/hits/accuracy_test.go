package hits

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		p    Profile
		want float64
	}{
		{Profile{Mode: ModeStandard, N300: 985, N100: 15}, 99},
		{Profile{Mode: ModeStandard, N300: 1, Miss: 1}, 50},
		{Profile{Mode: ModeStandard}, 0},
		{Profile{Mode: ModeTaiko, N300: 180, N100: 20}, 95},
		{Profile{Mode: ModeTaiko, N300: 5, N50: 100, Miss: 5}, 50},
		{Profile{Mode: ModeCatch, N300: 300, N100: 100, N50: 41, Katu: 9}, 98},
		{Profile{Mode: ModeCatch, N300: 1, Miss: 1}, 50},
		{Profile{Mode: ModeMania, Geki: 10, N300: 10}, 100},
		{Profile{Mode: ModeMania, N50: 1, Miss: 5}, 100.0 / 36},
		{Profile{Mode: ModeMania}, 0},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Accuracy(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
