package reward

import (
	"github.com/google/uuid"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Config is everything the generator needs from the balance table.
type Config struct {
	Odds          Odds
	Amounts       Amounts
	MaxCardsLevel int
}

// Generator deals card batches. It is not safe for concurrent use; the
// seeded source it may hold is not.
type Generator struct {
	cfg   Config
	rng   RandomSource
	newID func() string
}

// NewGenerator creates a generator. A nil rng falls back to DefaultRNG.
func NewGenerator(cfg Config, rng RandomSource) *Generator {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Generator{cfg: cfg, rng: rng, newID: uuid.NewString}
}

// Config returns the balance the generator currently deals with.
func (g *Generator) Config() Config { return g.cfg }

// SetConfig swaps the balance; the next batch uses it.
func (g *Generator) SetConfig(cfg Config) { g.cfg = cfg }

// SetIDFunc replaces the card id source.
func (g *Generator) SetIDFunc(fn func() string) {
	if fn != nil {
		g.newID = fn
	}
}

// BatchSize is 1 + MaxCardsLevel, bounded to [1, MaxCardsLevel cap + 1].
func (g *Generator) BatchSize(up model.UpgradesState) int {
	return 1 + model.Clamp(up.MaxCardsLevel, 0, g.cfg.MaxCardsLevel)
}

// GenerateBatch deals a fresh batch for one round.
func (g *Generator) GenerateBatch(up model.UpgradesState) []model.CardState {
	n := g.BatchSize(up)
	cards := make([]model.CardState, n)
	for i := range cards {
		cards[i] = model.CardState{
			ID:       g.newID(),
			Resource: g.Roll(up.LuckLevel),
		}
	}
	return cards
}

// Roll resolves one card payload: rarity, then amount, then currency.
func (g *Generator) Roll(luckLevel int) model.ResourceInfo {
	rarity := g.cfg.Odds.At(luckLevel).Pick(g.rng.Float64())
	amount := g.cfg.Amounts.Roll(rarity, g.rng)
	kind := model.ResourceTypes[intn(g.rng, len(model.ResourceTypes))]
	return model.ResourceInfo{Type: kind, Amount: amount, Rarity: rarity}
}
