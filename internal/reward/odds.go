package reward

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Easing specifies how odds move from the base set to the max set as the
// luck level rises.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

// DefaultCommonFloor is the smallest probability COMMON can ever have.
const DefaultCommonFloor = 0.1

var ErrOddsConfig = errors.New("invalid odds config")

// Valid reports whether e names a known curve. Empty means linear.
func (e Easing) Valid() bool {
	switch e {
	case "", EaseLinear, EaseOutQuad, EaseInOutCubic:
		return true
	}
	return false
}

// apply maps progress t in [0,1] onto the eased progress, also in [0,1].
func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
	default:
		return t
	}
}

// Chances is a rarity distribution. Common is derived, the others are tuned.
type Chances struct {
	Common    float64
	Uncommon  float64
	Rare      float64
	UltraRare float64
}

// Of returns the probability assigned to r.
func (c Chances) Of(r model.Rarity) float64 {
	switch r {
	case model.Uncommon:
		return c.Uncommon
	case model.Rare:
		return c.Rare
	case model.UltraRare:
		return c.UltraRare
	default:
		return c.Common
	}
}

// Pick resolves a uniform draw u in [0,1) to a tier. Windows are checked
// rarest first, so overlapping windows resolve to the rarer tier.
func (c Chances) Pick(u float64) model.Rarity {
	acc := c.UltraRare
	if u < acc {
		return model.UltraRare
	}
	acc += c.Rare
	if u < acc {
		return model.Rare
	}
	acc += c.Uncommon
	if u < acc {
		return model.Uncommon
	}
	return model.Common
}

// Odds interpolates rarity chances between Base (luck level 0) and Max
// (luck level MaxLevel).
type Odds struct {
	Base        Chances
	Max         Chances
	MaxLevel    int
	CommonFloor float64
	Easing      Easing
}

// At returns the distribution for a luck level. Levels outside
// [0, MaxLevel] are clamped.
func (o Odds) At(level int) Chances {
	t := 0.0
	if o.MaxLevel > 0 {
		t = float64(model.Clamp(level, 0, o.MaxLevel)) / float64(o.MaxLevel)
	}
	t = o.Easing.apply(t)

	lerp := func(lo, hi float64) float64 {
		return lo + (hi-lo)*t
	}
	c := Chances{
		Uncommon:  lerp(o.Base.Uncommon, o.Max.Uncommon),
		Rare:      lerp(o.Base.Rare, o.Max.Rare),
		UltraRare: lerp(o.Base.UltraRare, o.Max.UltraRare),
	}
	floor := o.CommonFloor
	if floor <= 0 {
		floor = DefaultCommonFloor
	}
	c.Common = math.Max(floor, 1-(c.Uncommon+c.Rare+c.UltraRare))
	return c
}

// Validate checks every tuned probability and the level cap.
func (o Odds) Validate() error {
	if o.MaxLevel < 1 {
		return fmt.Errorf("%w: max level must be >= 1", ErrOddsConfig)
	}
	if !o.Easing.Valid() {
		return fmt.Errorf("%w: unknown easing %q", ErrOddsConfig, o.Easing)
	}
	for _, p := range []float64{
		o.Base.Uncommon, o.Base.Rare, o.Base.UltraRare,
		o.Max.Uncommon, o.Max.Rare, o.Max.UltraRare,
		o.CommonFloor,
	} {
		if err := validateProb(p); err != nil {
			return fmt.Errorf("%w: %v", ErrOddsConfig, err)
		}
	}
	for _, c := range []Chances{o.Base, o.Max} {
		if c.Uncommon+c.Rare+c.UltraRare > 1 {
			return fmt.Errorf("%w: uncommon+rare+ultra_rare must not exceed 1", ErrOddsConfig)
		}
	}
	if o.Max.UltraRare < o.Base.UltraRare || o.Max.Rare < o.Base.Rare || o.Max.Uncommon < o.Base.Uncommon {
		return fmt.Errorf("%w: max chances must not be below base chances", ErrOddsConfig)
	}
	return nil
}
