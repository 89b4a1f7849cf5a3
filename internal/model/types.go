// types.go
package model

import "golang.org/x/exp/constraints"

// ResourceType identifies a currency. The string value doubles as the
// persisted inventory key.
type ResourceType string

const (
	Gold      ResourceType = "GOLD"
	Materials ResourceType = "MATERIALS"
)

// ResourceTypes lists every currency in display order.
var ResourceTypes = []ResourceType{Gold, Materials}

// Valid reports whether t is one of the known currencies.
func (t ResourceType) Valid() bool {
	return t == Gold || t == Materials
}

// Rarity is the reward quality tier, ordered from COMMON up.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	UltraRare
)

// Rarities lists every tier in ascending order.
var Rarities = []Rarity{Common, Uncommon, Rare, UltraRare}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "COMMON"
	case Uncommon:
		return "UNCOMMON"
	case Rare:
		return "RARE"
	case UltraRare:
		return "ULTRA_RARE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether r is inside the closed tier set.
func (r Rarity) Valid() bool {
	return r >= Common && r <= UltraRare
}

// ResourceInfo is the payload hidden behind a card.
type ResourceInfo struct {
	Type   ResourceType `json:"type"`
	Amount int          `json:"amount"`
	Rarity Rarity       `json:"rarity"`
}

// CardState is one face-down card of the current batch.
type CardState struct {
	ID       string       `json:"id"`
	Resource ResourceInfo `json:"resource"`
}

// UpgradesState holds the permanent upgrade levels.
type UpgradesState struct {
	LuckLevel     int `json:"luckLevel" mapstructure:"luckLevel"`
	MaxCardsLevel int `json:"maxCardsLevel" mapstructure:"maxCardsLevel"`
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
