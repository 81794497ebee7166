package hits

// mania has no accuracy reconstruction: the score carries the play's
// quality, and every note is counted as a rainbow 300.
type mania struct{}

func (mania) Targeted(inv Inventory, s Spec) Profile {
	return Profile{
		Mode:  ModeMania,
		Geki:  inv.TotalObjects,
		Score: min(pinned(s.Score, inv.MaxScore), inv.MaxScore),
	}
}

func (mania) Unchoke(inv Inventory, play Profile) Profile {
	p := play
	p.Mode = ModeMania
	if p.Miss == 0 && p.Conserved(inv) {
		return p
	}
	trim(sub(p.Passed(), inv.TotalObjects), &p.Miss, &p.N50, &p.N100, &p.Katu, &p.N300, &p.Geki)

	missing := sub(inv.TotalObjects, p.Passed())
	extra := secondBest(p.Geki, p.Passed()-p.Miss, p.Miss)

	p.Geki += p.Miss - extra + missing
	p.N300 += extra
	p.Miss = 0
	p.Score = min(nonNeg(p.Score), inv.MaxScore)
	return p
}

func (mania) Perfect(inv Inventory) Profile {
	return Profile{
		Mode:  ModeMania,
		Geki:  inv.TotalObjects,
		Score: inv.MaxScore,
	}
}
