package economy

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// TrackID names an upgrade progression line.
type TrackID string

const (
	// Luck raises the odds of the rarer tiers.
	Luck TrackID = "luck"
	// Cards adds one face-down card per level.
	Cards TrackID = "cards"
)

// TrackIDs lists the tracks in shop order.
var TrackIDs = []TrackID{Luck, Cards}

var (
	ErrUnknownTrack = errors.New("unknown upgrade track")
	ErrTrackConfig  = errors.New("invalid track config")
)

// ParseTrack resolves a user supplied track name.
func ParseTrack(s string) (TrackID, error) {
	switch TrackID(s) {
	case Luck, Cards:
		return TrackID(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
}

// Track is a single-currency exponential cost curve with a level cap.
// Example: Base=100, Growth=1.8 → 100, 180, 324, 583, ...
type Track struct {
	Currency model.ResourceType
	Base     float64
	Growth   float64
	MaxLevel int
}

// Cost returns floor(Base * Growth^level) in the track's currency.
func (t Track) Cost(level int) model.Cost {
	if level < 0 {
		level = 0
	}
	amount := math.Floor(t.Base * math.Pow(t.Growth, float64(level)))
	return model.Cost{t.Currency: int(amount)}
}

// Validate checks the curve is integer valued and strictly increasing on
// every purchasable level.
func (t Track) Validate() error {
	if !t.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrTrackConfig, t.Currency)
	}
	if t.MaxLevel < 0 {
		return fmt.Errorf("%w: max_level must be >= 0", ErrTrackConfig)
	}
	if t.Base < 1 {
		return fmt.Errorf("%w: base must be >= 1", ErrTrackConfig)
	}
	if t.Growth <= 1 || math.IsInf(t.Growth, 0) || math.IsNaN(t.Growth) {
		return fmt.Errorf("%w: growth must be > 1", ErrTrackConfig)
	}
	prev := 0
	for lvl := 0; lvl < t.MaxLevel; lvl++ {
		raw := t.Base * math.Pow(t.Growth, float64(lvl))
		if raw > math.MaxInt32 {
			return fmt.Errorf("%w: cost at level %d overflows", ErrTrackConfig, lvl)
		}
		c := t.Cost(lvl)[t.Currency]
		if c <= prev {
			return fmt.Errorf("%w: cost at level %d (%d) does not exceed level %d", ErrTrackConfig, lvl, c, lvl-1)
		}
		prev = c
	}
	return nil
}
