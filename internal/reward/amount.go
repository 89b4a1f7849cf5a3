package reward

import (
	"errors"
	"fmt"

	"github.com/xtding233/tavern-gambit/internal/model"
)

var ErrAmountTable = errors.New("invalid amount table")

// Range is a closed integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Amounts holds the reward range for every rarity.
type Amounts map[model.Rarity]Range

// Roll draws a uniform integer from the range of rarity r.
func (a Amounts) Roll(r model.Rarity, rng RandomSource) int {
	rg := a[r]
	return rg.Min + intn(rng, rg.Max-rg.Min+1)
}

// Validate requires a positive range per tier, with ranges strictly
// increasing and non-overlapping in rarity order.
func (a Amounts) Validate() error {
	prevMax := 0
	for _, r := range model.Rarities {
		rg, ok := a[r]
		if !ok {
			return fmt.Errorf("%w: missing range for %s", ErrAmountTable, r)
		}
		if rg.Min < 1 || rg.Max < rg.Min {
			return fmt.Errorf("%w: %s range [%d,%d] must satisfy 1 <= min <= max", ErrAmountTable, r, rg.Min, rg.Max)
		}
		if rg.Min <= prevMax {
			return fmt.Errorf("%w: %s range [%d,%d] overlaps the tier below", ErrAmountTable, r, rg.Min, rg.Max)
		}
		prevMax = rg.Max
	}
	return nil
}
