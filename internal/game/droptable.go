package game

import (
	"math/rand/v2"

	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/pkg/db/models"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
)

// DrawFunc supplies a uniform random value in [0, 100). It is injected so the
// engine can be driven by fixed sequences in tests.
type DrawFunc func() float64

// DefaultDraw draws from the process-wide generator.
func DefaultDraw() float64 {
	return rand.Float64() * 100
}

// SeededDraw returns a deterministic draw source for the given seed.
func SeededDraw(seed uint64) DrawFunc {
	rng := rand.New(rand.NewPCG(seed, seed))
	return func() float64 {
		return rng.Float64() * 100
	}
}

// ValidateDropTable rejects tables that cannot produce a fair selection:
// no entries, a negative weight, or an all-zero total.
func ValidateDropTable(entries []catalog.WeightedItem) error {
	if len(entries) == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidDropTable, "case has no drop entries")
	}
	total := 0.0
	for _, entry := range entries {
		if entry.Chance < 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidDropTable, "drop entry has negative chance")
		}
		total += entry.Chance
	}
	if total <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidDropTable, "drop table has zero total chance")
	}
	return nil
}

// ResolveDrop selects the winning item for a draw in [0, 100). Chances are
// relative weights scaled so the cumulative boundaries span [0, 100]; the
// first entry whose boundary reaches the draw wins, which makes ties resolve
// by input order. Floating-point summation can leave the final boundary just
// short of 100, so any unmatched draw falls back to the last entry rather
// than the loop default.
func ResolveDrop(entries []catalog.WeightedItem, draw float64) (models.Item, error) {
	if err := ValidateDropTable(entries); err != nil {
		return models.Item{}, err
	}

	total := 0.0
	for _, entry := range entries {
		total += entry.Chance
	}
	multiplier := 100 / total

	cumulative := 0.0
	for _, entry := range entries {
		cumulative += entry.Chance * multiplier
		if draw <= cumulative {
			return entry.Item, nil
		}
	}
	return entries[len(entries)-1].Item, nil
}
