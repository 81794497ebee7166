package hits

// Accuracy computes the accuracy of p as a percentage. A profile without any
// judgements has an accuracy of 0.
func Accuracy(p Profile) float64 {
	var points, maxPoints int
	switch p.Mode {
	case ModeTaiko:
		points = 2*p.N300 + p.N100
		maxPoints = 2 * (p.N300 + p.N100 + p.Miss)
	case ModeCatch:
		points = p.N300 + p.N100 + p.N50
		maxPoints = points + p.Katu + p.Miss
	case ModeMania:
		points = 300*(p.Geki+p.N300) + 200*p.Katu + 100*p.N100 + 50*p.N50
		maxPoints = 300 * p.Passed()
	default:
		points = 6*p.N300 + 2*p.N100 + p.N50
		maxPoints = 6 * (p.N300 + p.N100 + p.N50 + p.Miss)
	}
	if maxPoints <= 0 {
		return 0
	}
	return 100 * float64(points) / float64(maxPoints)
}
