package hits

import "gopkg.in/thehowl/go-osuapi.v1"

// maniaBaseScore is the score of a perfect nomod mania play.
const maniaBaseScore = 1000000

// Inventory holds the hittable elements of a beatmap for one mode. It is
// built once from map data and never changes during a reconstruction.
type Inventory struct {
	Mode Mode

	// TotalObjects is circles+sliders+spinners on standard, the number of
	// circles on taiko and the number of notes on mania. It is unused on catch.
	TotalObjects int

	Fruits       int
	Droplets     int
	TinyDroplets int

	MaxCombo int

	// MaxScore is the best score reachable on mania with the mods the
	// inventory was built for.
	MaxScore int
}

// NewStandardInventory builds the inventory of an osu!standard map. A zero
// maxCombo is replaced by the object count.
func NewStandardInventory(circles, sliders, spinners, maxCombo int) Inventory {
	total := nonNeg(circles) + nonNeg(sliders) + nonNeg(spinners)
	if maxCombo <= 0 {
		maxCombo = total
	}
	return Inventory{
		Mode:         ModeStandard,
		TotalObjects: total,
		MaxCombo:     maxCombo,
	}
}

// NewTaikoInventory builds the inventory of a taiko map from its circle count.
func NewTaikoInventory(circles int) Inventory {
	circles = nonNeg(circles)
	return Inventory{
		Mode:         ModeTaiko,
		TotalObjects: circles,
		MaxCombo:     circles,
	}
}

// NewCatchInventory builds the inventory of a catch map. Droplet counts
// depend on slider paths, so they come from difficulty attributes.
func NewCatchInventory(fruits, droplets, tinyDroplets int) Inventory {
	fruits, droplets = nonNeg(fruits), nonNeg(droplets)
	return Inventory{
		Mode:         ModeCatch,
		Fruits:       fruits,
		Droplets:     droplets,
		TinyDroplets: nonNeg(tinyDroplets),
		MaxCombo:     fruits + droplets,
	}
}

// NewManiaInventory builds the inventory of a mania map for the given mods.
func NewManiaInventory(objects int, mods osuapi.Mods) Inventory {
	return Inventory{
		Mode:         ModeMania,
		TotalObjects: nonNeg(objects),
		MaxScore:     ManiaMaxScore(mods),
	}
}

// ManiaMaxScore is 1,000,000 halved once for each of Easy, NoFail and
// HalfTime.
func ManiaMaxScore(mods osuapi.Mods) int {
	score := maniaBaseScore
	for _, m := range []osuapi.Mods{osuapi.ModEasy, osuapi.ModNoFail, osuapi.ModHalfTime} {
		if mods&m != 0 {
			score /= 2
		}
	}
	return score
}

// Total is the number of judgements that the categories of a profile built
// for this inventory have to add up to.
func (inv Inventory) Total() int {
	if inv.Mode == ModeCatch {
		return inv.Fruits + inv.Droplets
	}
	return inv.TotalObjects
}
