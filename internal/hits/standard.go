package hits

type standard struct{}

func (standard) Targeted(inv Inventory, s Spec) Profile {
	total := inv.TotalObjects
	miss := min(pinned(s.Misses, 0), total)

	var n300, n100, n50 int
	switch {
	case s.N100 != nil && s.N50 != nil:
		var pins []int
		pins, n300 = fit(total-miss, s.N100, s.N50)
		n100, n50 = pins[0], pins[1]

	case s.N100 != nil || s.N50 != nil:
		var pins []int
		var missingObjects int
		pins, missingObjects = fit(total-miss, s.N100, s.N50)
		n100, n50 = pins[0], pins[1]
		pinned50 := n50

		missingPoints := sub(roundPoints(s.acc(1), total, 6), 2*n100+n50+miss)
		n300 = min(missingObjects, missingPoints/6)
		n50 += missingObjects - n300

		if s.N100 == nil {
			// only n50 was given, move some of the filler back onto n100
			k := min(n300, (n50-pinned50)/4)
			n300 -= k
			n100 += 5 * k
			n50 -= 4 * k
		}

	case s.Accuracy == nil:
		left := total - miss
		if s.N300 != nil {
			n300 = min(pinned(s.N300, 0), left)
			n100 = left - n300
		} else {
			n300 = left
		}

	default:
		target := roundPoints(s.acc(1), total, 6)
		left := total - miss
		delta := sub(target, left)

		// unreachable accuracy turns into misses
		miss += sub(left, target)

		n300 = min(delta/5, total-miss)
		n100 = min(delta%5, total-n300-miss)
		n50 = total - n300 - n100 - miss

		// sacrifice 300s to turn 50s into 100s
		k := min(n300, n50/4)
		n300 -= k
		n100 += 5 * k
		n50 -= 4 * k
	}

	return Profile{
		Mode:  ModeStandard,
		N300:  n300,
		N100:  n100,
		N50:   n50,
		Miss:  miss,
		Combo: min(pinned(s.Combo, inv.MaxCombo), sub(inv.MaxCombo, miss)),
	}
}

func (standard) Unchoke(inv Inventory, play Profile) Profile {
	p := play
	p.Mode = ModeStandard
	if p.Miss == 0 && p.Conserved(inv) {
		return p
	}
	trim(sub(p.Passed(), inv.TotalObjects), &p.Miss, &p.N50, &p.N100, &p.N300)

	missing := sub(inv.TotalObjects, p.Passed())
	extra := secondBest(p.N300, p.Passed()-p.Miss, p.Miss)

	p.N300 += p.Miss - extra + missing
	p.N100 += extra
	p.Miss = 0
	p.Combo = inv.MaxCombo
	return p
}

func (standard) Perfect(inv Inventory) Profile {
	return Profile{
		Mode:  ModeStandard,
		N300:  inv.TotalObjects,
		Combo: inv.MaxCombo,
	}
}
