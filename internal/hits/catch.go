package hits

type catch struct{}

func (catch) Targeted(inv Inventory, s Spec) Profile {
	maxCombo := inv.MaxCombo
	miss := min(pinned(s.Misses, 0), maxCombo)

	// pins can't go past the map's own fruits and droplets
	fruits := min(pinned(s.N300, 0), inv.Fruits)
	droplets := min(pinned(s.N100, 0), inv.Droplets)
	trim(sub(fruits+droplets+miss, maxCombo), &droplets, &fruits)

	// misses use up the droplet shortfall first, the rest is caught
	missingFruits, missingDroplets := inv.Fruits-fruits, inv.Droplets-droplets
	dropletMisses := min(miss, missingDroplets)
	droplets += missingDroplets - dropletMisses
	fruits += sub(missingFruits, miss-dropletMisses)

	tiny := inv.TinyDroplets
	var tinyHit, tinyMiss int
	switch {
	case s.Accuracy != nil:
		targetHits := roundPoints(s.acc(1), maxCombo+tiny, 1)
		caught := fruits + droplets
		tinyHit = clamp(targetHits-caught, 0, tiny)
		tinyMiss = tiny - tinyHit

		if over := sub(caught, targetHits); over > 0 {
			d := min(over, droplets)
			droplets -= d
			fruits -= over - d
			miss += over
		}

	case s.N50 != nil:
		tinyHit = min(pinned(s.N50, 0), tiny)
		tinyMiss = tiny - tinyHit

	default:
		tinyMiss = min(pinned(s.Katu, 0), tiny)
		tinyHit = tiny - tinyMiss
	}

	return Profile{
		Mode:  ModeCatch,
		N300:  fruits,
		N100:  droplets,
		N50:   tinyHit,
		Katu:  tinyMiss,
		Miss:  miss,
		Combo: min(pinned(s.Combo, maxCombo), sub(maxCombo, miss)),
	}
}

func (catch) Unchoke(inv Inventory, play Profile) Profile {
	p := play
	p.Mode = ModeCatch
	if p.Miss == 0 && p.Conserved(inv) {
		return p
	}
	trim(sub(p.Passed(), inv.MaxCombo), &p.Miss, &p.N100, &p.N300)

	missing := sub(inv.MaxCombo, p.Passed())
	extra := secondBest(p.N300, p.Passed()-p.Miss, p.Miss)

	p.N300 += p.Miss - extra + missing
	p.N100 += extra
	p.Miss = 0

	// fruits and droplets are object types: neither can go past the map's count
	if over := sub(p.N100, inv.Droplets); over > 0 {
		p.N100 -= over
		p.N300 += over
	}
	if over := sub(p.N300, inv.Fruits); over > 0 {
		p.N300 -= over
		p.N100 += over
	}

	p.Katu = min(nonNeg(p.Katu), inv.TinyDroplets)
	p.N50 = inv.TinyDroplets - p.Katu
	p.Combo = inv.MaxCombo
	return p
}

func (catch) Perfect(inv Inventory) Profile {
	return Profile{
		Mode:  ModeCatch,
		N300:  inv.Fruits,
		N100:  inv.Droplets,
		N50:   inv.TinyDroplets,
		Combo: inv.MaxCombo,
	}
}

// EstimateCatchInventory guesses the inventory of the catch map play was set
// on when only its max combo is known. Misses are split between fruits and
// droplets in the proportion Unchoke uses, so unchoking play against the
// estimate keeps the play's own ratio.
func EstimateCatchInventory(play Profile, maxCombo int) Inventory {
	n300, n100, miss := nonNeg(play.N300), nonNeg(play.N100), nonNeg(play.Miss)
	droplets := n100 + secondBest(n300, n300+n100, miss)
	fruits := max(maxCombo, n300+n100+miss) - droplets
	return NewCatchInventory(fruits, droplets, nonNeg(play.N50)+nonNeg(play.Katu))
}
