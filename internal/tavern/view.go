package tavern

import (
	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/round"
)

// CardView is one card as the host renders it.
type CardView struct {
	model.CardState
	// Revealed: the card is face up.
	Revealed bool
	// Chosen: this is the card picked this round.
	Chosen bool
	// Hidden: the card is being swept away (not chosen, or resetting).
	Hidden bool
	// Disabled: the card cannot be picked right now.
	Disabled bool
}

// View is a consistent snapshot of everything the host draws.
type View struct {
	Phase     round.Phase
	Inventory model.Inventory
	Upgrades  model.UpgradesState
	Cards     []CardView
	Shop      []economy.Quote
	ShopOpen  bool
}

// Selectable reports whether a pick would currently be accepted.
func (v View) Selectable() bool {
	return v.Phase == round.Idle && !v.ShopOpen && len(v.Cards) > 0 && !v.Cards[0].Disabled
}
