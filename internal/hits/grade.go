package hits

import "gopkg.in/thehowl/go-osuapi.v1"

// Grade is the letter rank of a play.
type Grade int

// Grades, from worst to best.
const (
	GradeF Grade = iota
	GradeD
	GradeC
	GradeB
	GradeA
	GradeS
	GradeSH
	GradeX
	GradeXH
)

var gradeNames = [...]string{"F", "D", "C", "B", "A", "S", "SH", "X", "XH"}

func (g Grade) String() string {
	if g < GradeF || g > GradeXH {
		return "?"
	}
	return gradeNames[g]
}

// silver upgrades S and X to their Hidden/Flashlight variants.
func silver(g Grade, mods osuapi.Mods) Grade {
	if mods&(osuapi.ModHidden|osuapi.ModFlashlight) == 0 {
		return g
	}
	switch g {
	case GradeS:
		return GradeSH
	case GradeX:
		return GradeXH
	}
	return g
}

// AssignGrade computes the grade osu! would give p when played with mods.
func AssignGrade(p Profile, mods osuapi.Mods) Grade {
	switch p.Mode {
	case ModeTaiko:
		return silver(taikoGrade(p), mods)
	case ModeCatch:
		return silver(catchGrade(p), mods)
	case ModeMania:
		return silver(maniaGrade(p, mods), mods)
	default:
		return silver(standardGrade(p), mods)
	}
}

func standardGrade(p Profile) Grade {
	passed := p.Passed()
	if passed == 0 {
		return GradeD
	}
	if p.N300 == passed {
		return GradeX
	}
	r300 := float64(p.N300) / float64(passed)
	r50 := float64(p.N50) / float64(passed)
	fc := p.Miss == 0
	switch {
	case r300 > 0.9 && r50 < 0.01 && fc:
		return GradeS
	case r300 > 0.9 || (r300 > 0.8 && fc):
		return GradeA
	case r300 > 0.8 || (r300 > 0.7 && fc):
		return GradeB
	case r300 > 0.6:
		return GradeC
	}
	return GradeD
}

func taikoGrade(p Profile) Grade {
	passed := p.Passed()
	if passed > 0 && p.N300 == passed {
		return GradeX
	}
	acc := Accuracy(p)
	switch {
	case acc > 95:
		return GradeS
	case acc > 90:
		return GradeA
	case acc > 80:
		return GradeB
	}
	return GradeC
}

func catchGrade(p Profile) Grade {
	acc := Accuracy(p)
	switch {
	case p.Passed() > 0 && p.Miss == 0 && p.Katu == 0:
		return GradeX
	case acc > 98:
		return GradeS
	case acc > 94:
		return GradeA
	case acc > 90:
		return GradeB
	case acc > 85:
		return GradeC
	}
	return GradeD
}

func maniaGrade(p Profile, mods osuapi.Mods) Grade {
	passed := p.Passed()
	if passed > 0 && p.Geki == passed {
		if p.Score == 0 || p.Score >= ManiaMaxScore(mods) {
			return GradeX
		}
		return GradeS
	}
	acc := Accuracy(p)
	switch {
	case acc > 95:
		return GradeS
	case acc > 90:
		return GradeA
	case acc > 80:
		return GradeB
	case acc > 70:
		return GradeC
	}
	return GradeD
}
