package scoreboard

import (
	"fmt"

	"github.com/hupe1980/fpgold/format"
)

// MismatchError reports a run with failing cases. First is the first
// recorded mismatch, if any was kept.
type MismatchError struct {
	Failed int
	Total  int
	Format format.Format
	First  *Mismatch
}

func (e *MismatchError) Error() string {
	if e.First == nil {
		return fmt.Sprintf("scoreboard: %d of %d cases failed", e.Failed, e.Total)
	}
	m := e.First
	return fmt.Sprintf("scoreboard: %d of %d cases failed, first %s + %s (%s): got %s, want %s",
		e.Failed, e.Total,
		e.Format.Hex(m.Case.A), e.Format.Hex(m.Case.B), m.Case.Mode,
		e.Format.Hex(m.Got), e.Format.Hex(m.Want))
}
