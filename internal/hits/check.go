package hits

import (
	"errors"
	"fmt"
)

// Errors returned by Check.
var (
	ErrUnknownMode  = errors.New("hits: unknown game mode")
	ErrInvalidMode  = errors.New("hits: operation not supported for mode")
	ErrMissingPlay  = errors.New("hits: unchoke needs a play")
	ErrModeMismatch = errors.New("hits: play mode does not match the beatmap")
)

// Check rejects requests that make no sense for inv's mode. The
// reconstruction itself is defined for every input, so this is the only
// place a request can fail.
func Check(inv Inventory, req Request) error {
	if !inv.Mode.Valid() {
		return ErrUnknownMode
	}
	switch req.Op {
	case Targeted:
		if inv.Mode == ModeMania && req.Spec.Accuracy != nil {
			return fmt.Errorf("accuracy on %s: %w", inv.Mode, ErrInvalidMode)
		}
	case Unchoke:
		if req.Play == nil {
			return ErrMissingPlay
		}
		if req.Play.Mode != inv.Mode {
			return fmt.Errorf("%s play on %s map: %w", req.Play.Mode, inv.Mode, ErrModeMismatch)
		}
		if inv.Mode == ModeMania {
			return fmt.Errorf("unchoke on %s: %w", inv.Mode, ErrInvalidMode)
		}
	case Perfect:
	default:
		return fmt.Errorf("operation %d: %w", req.Op, ErrInvalidMode)
	}
	return nil
}
