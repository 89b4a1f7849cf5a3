package tavern

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
	"github.com/xtding233/tavern-gambit/internal/round"
	"github.com/xtding233/tavern-gambit/internal/save"
)

const saveTimeout = 2 * time.Second

// Options wires a Game. Only Store is required.
type Options struct {
	Store     save.Store
	Balance   balance.Table
	RNG       reward.RandomSource
	Scheduler round.Scheduler
	Logger    *zap.Logger
	// NewID overrides card id generation; tests use it for stable ids.
	NewID func() string
}

// Game owns the session state: balances, upgrade levels, the current batch
// and the round machine. Every method is safe for concurrent use; timer
// callbacks from the round machine arrive on their own goroutines.
type Game struct {
	mu sync.Mutex

	store   save.Store
	log     *zap.Logger
	table   balance.Table
	gen     *reward.Generator
	eco     *economy.Economy
	machine *round.Machine

	inventory model.Inventory
	upgrades  model.UpgradesState
	cards     []model.CardState
	// spent is set once a card of the current batch has been credited and
	// cleared when the next batch is dealt.
	spent    bool
	shopOpen bool

	listeners []func(View)
}

// New loads the saved state and deals the first batch.
func New(ctx context.Context, opts Options) (*Game, error) {
	if opts.Store == nil {
		return nil, errors.New("tavern: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Balance.Luck.MaxLevel == 0 && opts.Balance.Cards.MaxLevel == 0 {
		opts.Balance = balance.Default()
	}

	g := &Game{
		store: opts.Store,
		log:   opts.Logger,
		table: opts.Balance,
		gen:   reward.NewGenerator(opts.Balance.Reward, opts.RNG),
		eco:   economy.New(opts.Balance.Luck, opts.Balance.Cards),
	}
	if opts.NewID != nil {
		g.gen.SetIDFunc(opts.NewID)
	}
	g.machine = round.NewMachine(opts.Scheduler, opts.Balance.Timing, round.Hooks{
		OnResetting: g.notify,
		OnIdle:      g.dealNext,
	})

	g.inventory, g.upgrades = g.loadState(ctx)
	g.cards = g.gen.GenerateBatch(g.upgrades)
	g.log.Info("tavern opened",
		zap.Int("gold", g.inventory[model.Gold]),
		zap.Int("materials", g.inventory[model.Materials]),
		zap.Int("luck_level", g.upgrades.LuckLevel),
		zap.Int("cards_level", g.upgrades.MaxCardsLevel),
		zap.Int("batch", len(g.cards)))
	return g, nil
}

func (g *Game) loadState(ctx context.Context) (model.Inventory, model.UpgradesState) {
	lim := save.Limits{MaxLuckLevel: g.table.MaxLuckLevel(), MaxCardsLevel: g.table.MaxCardsLevel()}

	invBlob := g.loadBlob(ctx, save.InventoryKey)
	inv, issues := save.DecodeInventory(invBlob)
	g.logIssues(issues)

	upBlob := g.loadBlob(ctx, save.UpgradesKey)
	up, issues := save.DecodeUpgrades(upBlob, lim)
	g.logIssues(issues)
	return inv, up
}

func (g *Game) loadBlob(ctx context.Context, key string) []byte {
	b, err := g.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, save.ErrNotFound) {
			g.log.Warn("save unreadable, using defaults", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	return b
}

func (g *Game) logIssues(issues []save.Issue) {
	for _, is := range issues {
		g.log.Warn("save field reset", zap.String("key", is.Key), zap.String("field", is.Field), zap.String("reason", is.Reason))
	}
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs without the game lock held.
func (g *Game) OnChange(fn func(View)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Select picks card id. It is accepted only while the round is IDLE, the
// shop is closed and id belongs to the current batch; the card's reward is
// credited exactly once.
func (g *Game) Select(id string) bool {
	g.mu.Lock()
	if g.spent || g.shopOpen || g.machine.Phase() != round.Idle {
		g.mu.Unlock()
		return false
	}
	card, ok := g.findCard(id)
	if !ok || !g.machine.Reveal(id) {
		g.mu.Unlock()
		return false
	}
	g.spent = true
	g.inventory = g.inventory.Credit(card.Resource)
	inv := g.inventory.Clone()
	g.mu.Unlock()

	g.log.Info("card picked",
		zap.String("card", id),
		zap.String("type", string(card.Resource.Type)),
		zap.String("rarity", card.Resource.Rarity.String()),
		zap.Int("amount", card.Resource.Amount))
	g.persistInventory(inv)
	g.notify()
	return true
}

func (g *Game) findCard(id string) (model.CardState, bool) {
	for _, c := range g.cards {
		if c.ID == id {
			return c, true
		}
	}
	return model.CardState{}, false
}

// SelectIndex picks the i-th card (0-based) of the current batch.
func (g *Game) SelectIndex(i int) bool {
	g.mu.Lock()
	if i < 0 || i >= len(g.cards) {
		g.mu.Unlock()
		return false
	}
	id := g.cards[i].ID
	g.mu.Unlock()
	return g.Select(id)
}

// Purchase buys one level of a track. Unaffordable or mastered purchases
// are silently rejected. While the round is IDLE the batch is re-dealt so
// the new level shows at once; otherwise the next batch picks it up.
func (g *Game) Purchase(id economy.TrackID) bool {
	g.mu.Lock()
	up, rec := g.eco.Apply(id, g.upgrades, g.inventory)
	if !rec.Accepted {
		g.mu.Unlock()
		g.log.Debug("purchase rejected", zap.String("track", string(id)), zap.Int("level", economy.Level(up, id)))
		return false
	}
	g.inventory = rec.Inventory
	g.upgrades = up
	if !g.spent && g.machine.Phase() == round.Idle {
		g.cards = g.gen.GenerateBatch(g.upgrades)
	}
	inv, ups := g.inventory.Clone(), g.upgrades
	g.mu.Unlock()

	g.log.Info("upgrade purchased",
		zap.String("track", string(id)),
		zap.Int("level", rec.Level),
		zap.Any("cost", rec.Cost))
	g.persistInventory(inv)
	g.persistUpgrades(ups)
	g.notify()
	return true
}

// SetShopOpen toggles the shop overlay; picks are disabled while it is open.
func (g *Game) SetShopOpen(open bool) {
	g.mu.Lock()
	changed := g.shopOpen != open
	g.shopOpen = open
	g.mu.Unlock()
	if changed {
		g.notify()
	}
}

// SetBalance swaps the balance table. Odds, ranges and costs apply from the
// next batch and the next purchase; levels above a lowered cap are clamped.
func (g *Game) SetBalance(t balance.Table) {
	g.mu.Lock()
	g.table = t
	g.gen.SetConfig(t.Reward)
	g.eco = economy.New(t.Luck, t.Cards)
	g.machine.SetTiming(t.Timing)
	clamped := model.UpgradesState{
		LuckLevel:     model.Clamp(g.upgrades.LuckLevel, 0, t.MaxLuckLevel()),
		MaxCardsLevel: model.Clamp(g.upgrades.MaxCardsLevel, 0, t.MaxCardsLevel()),
	}
	changed := clamped != g.upgrades
	g.upgrades = clamped
	g.mu.Unlock()

	g.log.Info("balance applied", zap.String("version", t.Version))
	if changed {
		g.persistUpgrades(clamped)
	}
	g.notify()
}

// ResetProgress wipes both save blobs and starts over from zero.
func (g *Game) ResetProgress(ctx context.Context) error {
	g.machine.Stop()

	g.mu.Lock()
	g.inventory = model.NewInventory()
	g.upgrades = model.UpgradesState{}
	g.cards = g.gen.GenerateBatch(g.upgrades)
	g.spent = false
	g.mu.Unlock()

	err := errors.Join(
		g.store.Delete(ctx, save.InventoryKey),
		g.store.Delete(ctx, save.UpgradesKey),
	)
	if err != nil {
		g.log.Error("reset failed", zap.Error(err))
	} else {
		g.log.Info("progress reset")
	}
	g.notify()
	return err
}

// Snapshot returns the current state with per-card visibility flags.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() View {
	phase := g.machine.Phase()
	chosen := g.machine.Chosen()
	if g.spent && phase == round.Idle {
		// the machine has flipped to IDLE but dealNext has not run yet
		phase = round.Resetting
	}

	v := View{
		Phase:     phase,
		Inventory: g.inventory.Clone(),
		Upgrades:  g.upgrades,
		ShopOpen:  g.shopOpen,
		Cards:     make([]CardView, len(g.cards)),
	}
	disabled := phase != round.Idle || g.shopOpen
	for i, c := range g.cards {
		isChosen := chosen != "" && c.ID == chosen
		v.Cards[i] = CardView{
			CardState: c,
			Revealed:  isChosen,
			Chosen:    isChosen,
			Hidden:    (chosen != "" && !isChosen) || phase == round.Resetting,
			Disabled:  disabled,
		}
	}
	for _, id := range economy.TrackIDs {
		v.Shop = append(v.Shop, g.eco.Quote(id, economy.Level(g.upgrades, id), g.inventory))
	}
	return v
}

// Plan prices the levels between the current level of id and target
// against the current balances.
func (g *Game) Plan(id economy.TrackID, target int) economy.Plan {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eco.PlanTo(id, economy.Level(g.upgrades, id), target, g.inventory)
}

// Balance returns the table in effect.
func (g *Game) Balance() balance.Table {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table
}

// Close cancels pending round timers and closes the store.
func (g *Game) Close() error {
	g.machine.Stop()
	return g.store.Close()
}

// dealNext runs on RESETTING -> IDLE.
func (g *Game) dealNext() {
	g.mu.Lock()
	g.cards = g.gen.GenerateBatch(g.upgrades)
	g.spent = false
	n := len(g.cards)
	g.mu.Unlock()

	g.log.Debug("batch dealt", zap.Int("cards", n))
	g.notify()
}

func (g *Game) notify() {
	g.mu.Lock()
	listeners := append([]func(View)(nil), g.listeners...)
	v := g.snapshotLocked()
	g.mu.Unlock()
	for _, fn := range listeners {
		fn(v)
	}
}

func (g *Game) persistInventory(inv model.Inventory) {
	b, err := save.EncodeInventory(inv)
	if err == nil {
		err = g.write(save.InventoryKey, b)
	}
	if err != nil {
		g.log.Error("save failed", zap.String("key", save.InventoryKey), zap.Error(err))
	}
}

func (g *Game) persistUpgrades(up model.UpgradesState) {
	b, err := save.EncodeUpgrades(up)
	if err == nil {
		err = g.write(save.UpgradesKey, b)
	}
	if err != nil {
		g.log.Error("save failed", zap.String("key", save.UpgradesKey), zap.Error(err))
	}
}

func (g *Game) write(key string, b []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	return g.store.Save(ctx, key, b)
}
