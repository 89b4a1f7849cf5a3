package balance

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
	"github.com/xtding233/tavern-gambit/internal/round"
)

var ErrInvalidTable = errors.New("invalid balance table")

var rarityKeys = map[model.Rarity]string{
	model.Common:    "common",
	model.Uncommon:  "uncommon",
	model.Rare:      "rare",
	model.UltraRare: "ultra_rare",
}

// ValidateRaw checks that every required key is present and in range.
func ValidateRaw(cfg RawTable) error {
	var errs []string

	// odds
	if !reward.Easing(cfg.Odds.Easing).Valid() {
		errs = append(errs, "odds.easing must be one of: linear, easeOutQuad, easeInOutCubic")
	}
	if f := cfg.Odds.CommonFloor; f != nil && (*f < 0 || *f > 1) {
		errs = append(errs, "odds.common_floor must be in [0,1]")
	}
	for name, set := range map[string]*ChanceSet{"base": cfg.Odds.Base, "max": cfg.Odds.Max} {
		if set == nil {
			errs = append(errs, fmt.Sprintf("odds.%s is required", name))
			continue
		}
		for field, p := range map[string]*float64{"uncommon": set.Uncommon, "rare": set.Rare, "ultra_rare": set.UltraRare} {
			switch {
			case p == nil:
				errs = append(errs, fmt.Sprintf("odds.%s.%s is required", name, field))
			case *p < 0 || *p > 1:
				errs = append(errs, fmt.Sprintf("odds.%s.%s must be in [0,1]", name, field))
			}
		}
	}

	// amounts
	for k := range cfg.Amounts {
		if !knownRarityKey(k) {
			errs = append(errs, fmt.Sprintf("amounts.%s is not a rarity", k))
		}
	}
	for _, r := range model.Rarities {
		k := rarityKeys[r]
		rg := cfg.Amounts[k]
		if rg == nil || rg.Min == nil || rg.Max == nil {
			errs = append(errs, fmt.Sprintf("amounts.%s.min and max are required", k))
		}
	}

	// tracks
	for k := range cfg.Tracks {
		if _, err := economy.ParseTrack(k); err != nil {
			errs = append(errs, fmt.Sprintf("tracks.%s is not a track", k))
		}
	}
	for _, id := range economy.TrackIDs {
		tc := cfg.Tracks[string(id)]
		if tc == nil {
			errs = append(errs, fmt.Sprintf("tracks.%s is required", id))
			continue
		}
		if !model.ResourceType(tc.Currency).Valid() {
			errs = append(errs, fmt.Sprintf("tracks.%s.currency must be GOLD or MATERIALS", id))
		}
		if tc.Base == nil || tc.Growth == nil || tc.MaxLevel == nil {
			errs = append(errs, fmt.Sprintf("tracks.%s.base, growth and max_level are required", id))
		}
	}
	luck, cards := cfg.Tracks[string(economy.Luck)], cfg.Tracks[string(economy.Cards)]
	if luck != nil && cards != nil && luck.Currency != "" && luck.Currency == cards.Currency {
		errs = append(errs, "tracks.luck and tracks.cards must charge different currencies")
	}
	if luck != nil && luck.MaxLevel != nil && *luck.MaxLevel < 1 {
		errs = append(errs, "tracks.luck.max_level must be >= 1")
	}

	// round
	if d := cfg.Round.RevealDwell; d != nil && *d <= 0 {
		errs = append(errs, "round.reveal_dwell must be > 0")
	}
	if d := cfg.Round.ResetDelay; d != nil && *d <= 0 {
		errs = append(errs, "round.reset_delay must be > 0")
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(errs, "; "))
	}
	return nil
}

// Normalize validates a merged RawTable and converts it to a Table.
func Normalize(cfg RawTable) (Table, error) {
	if err := ValidateRaw(cfg); err != nil {
		return Table{}, err
	}

	luck := toTrack(cfg.Tracks[string(economy.Luck)])
	cards := toTrack(cfg.Tracks[string(economy.Cards)])

	odds := reward.Odds{
		Base:        toChances(cfg.Odds.Base),
		Max:         toChances(cfg.Odds.Max),
		MaxLevel:    luck.MaxLevel,
		CommonFloor: reward.DefaultCommonFloor,
		Easing:      reward.Easing(cfg.Odds.Easing),
	}
	if odds.Easing == "" {
		odds.Easing = reward.EaseLinear
	}
	if cfg.Odds.CommonFloor != nil {
		odds.CommonFloor = *cfg.Odds.CommonFloor
	}

	amounts := make(reward.Amounts, len(model.Rarities))
	for _, r := range model.Rarities {
		rg := cfg.Amounts[rarityKeys[r]]
		amounts[r] = reward.Range{Min: *rg.Min, Max: *rg.Max}
	}

	timing := round.DefaultTiming()
	if cfg.Round.RevealDwell != nil {
		timing.RevealDwell = *cfg.Round.RevealDwell
	}
	if cfg.Round.ResetDelay != nil {
		timing.ResetDelay = *cfg.Round.ResetDelay
	}

	t := Table{
		Version: cfg.Version,
		Reward: reward.Config{
			Odds:          odds,
			Amounts:       amounts,
			MaxCardsLevel: cards.MaxLevel,
		},
		Luck:   luck,
		Cards:  cards,
		Timing: timing,
	}
	for _, check := range []func() error{
		t.Reward.Odds.Validate,
		t.Reward.Amounts.Validate,
		t.Luck.Validate,
		t.Cards.Validate,
	} {
		if err := check(); err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
	}
	return t, nil
}

// ValidateFile checks an override file as it would be merged over the default.
func ValidateFile(path string) (Table, error) {
	if _, err := os.Stat(path); err != nil {
		return Table{}, err
	}
	return NewLoader(path).Load()
}

func toTrack(tc *TrackConfig) economy.Track {
	return economy.Track{
		Currency: model.ResourceType(tc.Currency),
		Base:     *tc.Base,
		Growth:   *tc.Growth,
		MaxLevel: *tc.MaxLevel,
	}
}

func toChances(c *ChanceSet) reward.Chances {
	return reward.Chances{Uncommon: *c.Uncommon, Rare: *c.Rare, UltraRare: *c.UltraRare}
}

func knownRarityKey(k string) bool {
	for _, v := range rarityKeys {
		if v == k {
			return true
		}
	}
	return false
}
