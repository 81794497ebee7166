package hits

// Operation selects how a profile gets reconstructed.
type Operation int

const (
	// Targeted builds a profile from a Spec alone.
	Targeted Operation = iota
	// Unchoke removes the misses of a real play, keeping its hit quality.
	Unchoke
	// Perfect builds the best possible profile for the map.
	Perfect
)

func (o Operation) String() string {
	switch o {
	case Targeted:
		return "targeted"
	case Unchoke:
		return "unchoke"
	case Perfect:
		return "perfect"
	}
	return "unknown"
}

// Request is the input of Reconstruct. Play is only read by Unchoke, Spec
// only by Targeted.
type Request struct {
	Op   Operation
	Spec Spec
	Play *Profile
}

// Reconstructor fills in profiles for a single mode. Implementations are
// stateless, and every method returns a profile that is conserved for inv.
type Reconstructor interface {
	Targeted(inv Inventory, s Spec) Profile
	Unchoke(inv Inventory, play Profile) Profile
	Perfect(inv Inventory) Profile
}

// For returns the Reconstructor of mode m.
func For(m Mode) (Reconstructor, error) {
	switch m {
	case ModeStandard:
		return standard{}, nil
	case ModeTaiko:
		return taiko{}, nil
	case ModeCatch:
		return catch{}, nil
	case ModeMania:
		return mania{}, nil
	}
	return nil, ErrUnknownMode
}

// Reconstruct validates req against inv with Check and then runs the
// requested operation.
func Reconstruct(inv Inventory, req Request) (Profile, error) {
	if err := Check(inv, req); err != nil {
		return Profile{}, err
	}
	r, err := For(inv.Mode)
	if err != nil {
		return Profile{}, err
	}
	switch req.Op {
	case Unchoke:
		return r.Unchoke(inv, *req.Play), nil
	case Perfect:
		return r.Perfect(inv), nil
	}
	return r.Targeted(inv, req.Spec), nil
}

// secondBest returns how many of a play's misses turn into second-best
// judgements when unchoking it: the misses are split in the same proportion
// as the play's hits that were not best-quality. ratio is
// 1 - best/hits, rounded up; a play without hits counts as ratio 1.
func secondBest(best, hits, miss int) int {
	if hits <= 0 {
		return miss
	}
	worse := clamp(hits-best, 0, hits)
	return (worse*miss + hits - 1) / hits
}

// trim removes excess judgements from fields, in order, so that a play
// recorded with more judgements than the map has can still be conserved.
func trim(excess int, fields ...*int) {
	for _, f := range fields {
		if excess <= 0 {
			return
		}
		n := min(excess, *f)
		*f -= n
		excess -= n
	}
}

// fit clamps the pinned counts of a spec into the slots left on a map,
// in order, and returns them along with the slots still free.
func fit(slots int, pins ...*int) ([]int, int) {
	out := make([]int, len(pins))
	for i, p := range pins {
		out[i] = min(pinned(p, 0), slots)
		slots -= out[i]
	}
	return out, slots
}
