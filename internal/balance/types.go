// types.go
package balance

import (
	"time"

	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/reward"
	"github.com/xtding233/tavern-gambit/internal/round"
)

// Raw table loaded from YAML. Pointer fields tell "unset" apart from zero so
// an override file only needs the keys it changes.
type RawTable struct {
	Version string                  `yaml:"version"`
	Odds    OddsConfig              `yaml:"odds"`
	Amounts map[string]*RangeConfig `yaml:"amounts,omitempty"`
	Tracks  map[string]*TrackConfig `yaml:"tracks,omitempty"`
	Round   RoundConfig             `yaml:"round"`
	Notes   string                  `yaml:"notes,omitempty"`
}

type OddsConfig struct {
	Easing      string     `yaml:"easing,omitempty"` // "linear" | "easeOutQuad" | "easeInOutCubic"
	CommonFloor *float64   `yaml:"common_floor,omitempty"`
	Base        *ChanceSet `yaml:"base,omitempty"`
	Max         *ChanceSet `yaml:"max,omitempty"`
}

type ChanceSet struct {
	Uncommon  *float64 `yaml:"uncommon,omitempty"`
	Rare      *float64 `yaml:"rare,omitempty"`
	UltraRare *float64 `yaml:"ultra_rare,omitempty"`
}

type RangeConfig struct {
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
}

type TrackConfig struct {
	Currency string   `yaml:"currency,omitempty"`
	Base     *float64 `yaml:"base,omitempty"`
	Growth   *float64 `yaml:"growth,omitempty"`
	MaxLevel *int     `yaml:"max_level,omitempty"`
}

type RoundConfig struct {
	RevealDwell *time.Duration `yaml:"reveal_dwell,omitempty"`
	ResetDelay  *time.Duration `yaml:"reset_delay,omitempty"`
}

// Normalized balance used by the game.
type Table struct {
	Version string
	Reward  reward.Config
	Luck    economy.Track
	Cards   economy.Track
	Timing  round.Timing
}

func (t Table) MaxLuckLevel() int  { return t.Luck.MaxLevel }
func (t Table) MaxCardsLevel() int { return t.Cards.MaxLevel }
