package hits

type taiko struct{}

func (taiko) Targeted(inv Inventory, s Spec) Profile {
	total := inv.TotalObjects
	miss := min(pinned(s.Misses, 0), total)
	pins, missing := fit(total-miss, s.N300, s.N100)
	n300, n100 := pins[0], pins[1]

	switch {
	case s.Accuracy != nil && s.N300 == nil && s.N100 == nil:
		target := roundPoints(s.acc(1), total, 2)
		left := total - miss
		miss += sub(left, target)
		left = total - miss
		n300 = min(sub(target, left), left)
		n100 = left - n300

	case s.Accuracy != nil:
		target := roundPoints(s.acc(1), total, 2)
		new300 := clamp(target-2*n300-n100-missing, 0, missing)
		n300 += new300
		n100 += missing - new300

	case s.N300 != nil && s.N100 == nil:
		n100 += missing

	default:
		n300 += missing
	}

	return Profile{
		Mode:  ModeTaiko,
		N300:  n300,
		N100:  n100,
		Miss:  miss,
		Combo: min(pinned(s.Combo, inv.MaxCombo), sub(inv.MaxCombo, miss)),
	}
}

func (taiko) Unchoke(inv Inventory, play Profile) Profile {
	p := play
	p.Mode = ModeTaiko
	if p.Miss == 0 && p.Conserved(inv) {
		return p
	}
	trim(sub(p.Passed(), inv.TotalObjects), &p.Miss, &p.N100, &p.N300)

	missing := sub(inv.TotalObjects, p.Passed())
	extra := secondBest(p.N300, p.Passed()-p.Miss, p.Miss)

	p.N300 += p.Miss - extra + missing
	p.N100 += extra
	p.Miss = 0
	p.Combo = inv.MaxCombo
	return p
}

func (taiko) Perfect(inv Inventory) Profile {
	return Profile{
		Mode:  ModeTaiko,
		N300:  inv.TotalObjects,
		Combo: inv.MaxCombo,
	}
}
