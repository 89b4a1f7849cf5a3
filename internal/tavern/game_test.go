package tavern_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
	"github.com/xtding233/tavern-gambit/internal/round"
	"github.com/xtding233/tavern-gambit/internal/save"
	"github.com/xtding233/tavern-gambit/internal/tavern"
)

// cycleRNG replays a fixed sequence of draws.
type cycleRNG struct {
	vals []float64
	i    int
}

func (c *cycleRNG) Float64() float64 {
	v := c.vals[c.i%len(c.vals)]
	c.i++
	return v
}

// rareGold42 makes every card a RARE {GOLD, 42} at luck level 0:
// rarity draw inside the rare band, amount 31+11, currency index 0.
func rareGold42() *cycleRNG {
	return &cycleRNG{vals: []float64{0.005, 11.5 / 39, 0.1}}
}

type fixture struct {
	game  *tavern.Game
	store *save.MemoryStore
	sched *round.ManualScheduler
	logs  *observer.ObservedLogs
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("card-%d", n)
	}
}

func newFixture(t *testing.T, rng reward.RandomSource, blobs map[string]string) fixture {
	t.Helper()
	store := save.NewMemoryStore()
	ctx := context.Background()
	for k, v := range blobs {
		if err := store.Save(ctx, k, []byte(v)); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	core, logs := observer.New(zapcore.DebugLevel)
	sched := round.NewManualScheduler()
	if rng == nil {
		rng = reward.NewSeededRNG(7)
	}
	g, err := tavern.New(ctx, tavern.Options{
		Store:     store,
		Balance:   balance.Default(),
		RNG:       rng,
		Scheduler: sched,
		Logger:    zap.New(core),
		NewID:     seqIDs(),
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return fixture{game: g, store: store, sched: sched, logs: logs}
}

func loadInventory(t *testing.T, s save.Store) model.Inventory {
	t.Helper()
	b, err := s.Load(context.Background(), save.InventoryKey)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	inv, issues := save.DecodeInventory(b)
	if len(issues) > 0 {
		t.Fatalf("stored inventory unreadable: %v", issues)
	}
	return inv
}

func TestPickCreditsReward(t *testing.T) {
	f := newFixture(t, rareGold42(), map[string]string{
		save.InventoryKey: `{"GOLD":10,"MATERIALS":0}`,
	})

	v := f.game.Snapshot()
	if v.Phase != round.Idle || len(v.Cards) != 1 {
		t.Fatalf("fresh session: phase %s, %d cards", v.Phase, len(v.Cards))
	}
	want := model.ResourceInfo{Type: model.Gold, Amount: 42, Rarity: model.Rare}
	if v.Cards[0].Resource != want {
		t.Fatalf("card = %+v, want %+v", v.Cards[0].Resource, want)
	}

	if !f.game.Select(v.Cards[0].ID) {
		t.Fatalf("pick from IDLE should be accepted")
	}
	v = f.game.Snapshot()
	if v.Phase != round.Revealed {
		t.Fatalf("phase after pick = %s", v.Phase)
	}
	if v.Inventory[model.Gold] != 52 || v.Inventory[model.Materials] != 0 {
		t.Fatalf("inventory = %v, want GOLD 52", v.Inventory)
	}
	if !v.Cards[0].Revealed || !v.Cards[0].Chosen || !v.Cards[0].Disabled {
		t.Fatalf("picked card flags = %+v", v.Cards[0])
	}
	if got := loadInventory(t, f.store); got[model.Gold] != 52 {
		t.Fatalf("persisted inventory = %v", got)
	}

	if f.game.Select(v.Cards[0].ID) {
		t.Fatalf("second pick in the same round must be ignored")
	}
	if f.game.Snapshot().Inventory[model.Gold] != 52 {
		t.Fatalf("reward credited twice")
	}
}

func TestPickUnknownCardIgnored(t *testing.T) {
	f := newFixture(t, nil, nil)
	if f.game.Select("nope") || f.game.SelectIndex(5) || f.game.SelectIndex(-1) {
		t.Fatalf("unknown card accepted")
	}
	if f.game.Snapshot().Phase != round.Idle {
		t.Fatalf("phase changed on a rejected pick")
	}
}

func TestRoundDealsNextBatch(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.UpgradesKey: `{"luckLevel":0,"maxCardsLevel":2}`,
	})
	first := f.game.Snapshot()
	if len(first.Cards) != 3 {
		t.Fatalf("batch size = %d, want 3", len(first.Cards))
	}
	if !f.game.SelectIndex(1) {
		t.Fatalf("pick rejected")
	}
	v := f.game.Snapshot()
	if !v.Cards[0].Hidden || v.Cards[1].Hidden || !v.Cards[2].Hidden {
		t.Fatalf("unchosen cards should be hidden: %+v", v.Cards)
	}

	f.sched.Advance(round.DefaultRevealDwell)
	v = f.game.Snapshot()
	if v.Phase != round.Resetting {
		t.Fatalf("phase = %s, want RESETTING", v.Phase)
	}
	for _, c := range v.Cards {
		if !c.Hidden || !c.Disabled {
			t.Fatalf("card %s should be hidden and disabled while resetting", c.ID)
		}
	}
	if f.game.SelectIndex(0) {
		t.Fatalf("pick while resetting must be ignored")
	}

	f.sched.Advance(round.DefaultResetDelay)
	next := f.game.Snapshot()
	if next.Phase != round.Idle || len(next.Cards) != 3 {
		t.Fatalf("next round: phase %s, %d cards", next.Phase, len(next.Cards))
	}
	for i, c := range next.Cards {
		if c.ID == first.Cards[i].ID {
			t.Fatalf("card %d was not re-dealt", i)
		}
		if c.Hidden || c.Revealed || c.Disabled {
			t.Fatalf("fresh card flags = %+v", c)
		}
	}
	if !f.game.SelectIndex(0) {
		t.Fatalf("next round should accept a pick")
	}
}

func TestPurchaseCardSlots(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `{"GOLD":0,"MATERIALS":1000}`,
	})
	for i := 0; i < 3; i++ {
		if !f.game.Purchase(economy.Cards) {
			t.Fatalf("purchase %d rejected", i+1)
		}
	}
	v := f.game.Snapshot()
	if v.Upgrades.MaxCardsLevel != 3 {
		t.Fatalf("cards level = %d", v.Upgrades.MaxCardsLevel)
	}
	if v.Inventory[model.Materials] != 1000-487 {
		t.Fatalf("materials = %d, want %d", v.Inventory[model.Materials], 1000-487)
	}
	if len(v.Cards) != 4 {
		t.Fatalf("idle batch should grow at once, got %d cards", len(v.Cards))
	}

	b, err := f.store.Load(context.Background(), save.UpgradesKey)
	if err != nil {
		t.Fatalf("upgrades not saved: %v", err)
	}
	up, _ := save.DecodeUpgrades(b, save.Limits{MaxLuckLevel: 10, MaxCardsLevel: 4})
	if up.MaxCardsLevel != 3 {
		t.Fatalf("persisted upgrades = %+v", up)
	}
}

func TestPurchaseRejectedWhenShort(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `{"GOLD":50,"MATERIALS":0}`,
	})
	if f.game.Purchase(economy.Luck) {
		t.Fatalf("luck level 1 costs 100 GOLD; purchase with 50 must fail")
	}
	v := f.game.Snapshot()
	if v.Inventory[model.Gold] != 50 || v.Upgrades.LuckLevel != 0 {
		t.Fatalf("state changed on rejected purchase: %v %+v", v.Inventory, v.Upgrades)
	}
	if _, err := f.store.Load(context.Background(), save.UpgradesKey); !errors.Is(err, save.ErrNotFound) {
		t.Fatalf("rejected purchase wrote upgrades: %v", err)
	}
	q := v.Shop[0]
	if q.Track != economy.Luck || q.Affordable || q.Cost[model.Gold] != 100 {
		t.Fatalf("luck quote = %+v", q)
	}
}

func TestPurchaseDuringRevealAppliesNextBatch(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `{"GOLD":0,"MATERIALS":60}`,
	})
	if !f.game.SelectIndex(0) {
		t.Fatalf("pick rejected")
	}
	if !f.game.Purchase(economy.Cards) {
		t.Fatalf("purchase rejected")
	}
	if n := len(f.game.Snapshot().Cards); n != 1 {
		t.Fatalf("revealed batch must not change, got %d cards", n)
	}
	f.sched.Advance(round.DefaultRevealDwell + round.DefaultResetDelay)
	if n := len(f.game.Snapshot().Cards); n != 2 {
		t.Fatalf("next batch = %d cards, want 2", n)
	}
}

func TestShopBlocksPicks(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.game.SetShopOpen(true)
	v := f.game.Snapshot()
	if !v.ShopOpen || v.Selectable() || !v.Cards[0].Disabled {
		t.Fatalf("shop open should disable cards: %+v", v)
	}
	if f.game.SelectIndex(0) {
		t.Fatalf("pick accepted with shop open")
	}
	f.game.SetShopOpen(false)
	if !f.game.SelectIndex(0) {
		t.Fatalf("pick rejected after shop closed")
	}
}

func TestMalformedSaveFallsBack(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `not json`,
		save.UpgradesKey:  `{"luckLevel":99,"maxCardsLevel":"x"}`,
	})
	v := f.game.Snapshot()
	if !v.Inventory.Equal(model.NewInventory()) {
		t.Fatalf("inventory = %v, want zeros", v.Inventory)
	}
	if v.Upgrades.LuckLevel != 10 || v.Upgrades.MaxCardsLevel != 0 {
		t.Fatalf("upgrades = %+v, want luck clamped to 10 and cards reset", v.Upgrades)
	}
	if n := f.logs.FilterMessage("save field reset").Len(); n != 3 {
		t.Fatalf("logged %d save warnings, want 3", n)
	}
}

func TestSaveFailureKeepsSession(t *testing.T) {
	f := newFixture(t, rareGold42(), nil)
	f.store.Fail = errors.New("disk full")
	if !f.game.SelectIndex(0) {
		t.Fatalf("pick rejected")
	}
	if got := f.game.Snapshot().Inventory[model.Gold]; got != 42 {
		t.Fatalf("in-memory gold = %d, want 42", got)
	}
	if f.logs.FilterMessage("save failed").Len() == 0 {
		t.Fatalf("save failure not logged")
	}
}

func TestResetProgress(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `{"GOLD":500,"MATERIALS":500}`,
	})
	if !f.game.Purchase(economy.Luck) || !f.game.Purchase(economy.Cards) {
		t.Fatalf("purchases rejected")
	}
	_ = f.game.SelectIndex(0)

	if err := f.game.ResetProgress(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	v := f.game.Snapshot()
	if v.Phase != round.Idle || len(v.Cards) != 1 {
		t.Fatalf("after reset: phase %s, %d cards", v.Phase, len(v.Cards))
	}
	if !v.Inventory.Equal(model.NewInventory()) || v.Upgrades != (model.UpgradesState{}) {
		t.Fatalf("progress survived reset: %v %+v", v.Inventory, v.Upgrades)
	}
	for _, key := range []string{save.InventoryKey, save.UpgradesKey} {
		if _, err := f.store.Load(context.Background(), key); !errors.Is(err, save.ErrNotFound) {
			t.Fatalf("%s still stored: %v", key, err)
		}
	}
	if f.sched.Pending() != 0 {
		t.Fatalf("round timers survived reset")
	}
}

func TestSetBalanceClampsLevels(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.UpgradesKey: `{"luckLevel":8,"maxCardsLevel":4}`,
	})
	tbl := balance.Default()
	tbl.Cards.MaxLevel = 2
	tbl.Reward.MaxCardsLevel = 2
	tbl.Timing = round.Timing{RevealDwell: time.Second, ResetDelay: time.Second}
	f.game.SetBalance(tbl)

	v := f.game.Snapshot()
	if v.Upgrades.MaxCardsLevel != 2 || v.Upgrades.LuckLevel != 8 {
		t.Fatalf("upgrades = %+v", v.Upgrades)
	}
	if !v.Shop[1].Maxed {
		t.Fatalf("cards track should read mastered at the new cap: %+v", v.Shop[1])
	}

	_ = f.game.SelectIndex(0)
	f.sched.Advance(2 * time.Second)
	if v := f.game.Snapshot(); v.Phase != round.Idle || len(v.Cards) != 3 {
		t.Fatalf("new timing/batch not applied: %s, %d cards", v.Phase, len(v.Cards))
	}
}

func TestOnChangeNotifies(t *testing.T) {
	f := newFixture(t, nil, nil)
	var phases []round.Phase
	f.game.OnChange(func(v tavern.View) { phases = append(phases, v.Phase) })

	_ = f.game.SelectIndex(0)
	f.sched.Advance(round.DefaultRevealDwell + round.DefaultResetDelay)

	want := []round.Phase{round.Revealed, round.Resetting, round.Idle}
	if len(phases) != len(want) {
		t.Fatalf("notified phases %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("notified phases %v, want %v", phases, want)
		}
	}
}

func TestPlanUsesSavedState(t *testing.T) {
	f := newFixture(t, nil, map[string]string{
		save.InventoryKey: `{"GOLD":300,"MATERIALS":0}`,
		save.UpgradesKey:  `{"luckLevel":1,"maxCardsLevel":0}`,
	})
	p := f.game.Plan(economy.Luck, 3)
	if p.From != 1 || p.To != 3 || len(p.Steps) != 2 {
		t.Fatalf("plan = %+v", p)
	}
	// 180 + 324
	if p.Total[model.Gold] != 504 || p.Shortfall[model.Gold] != 204 || p.Affordable != 1 {
		t.Fatalf("plan totals = %+v", p)
	}
	if f.game.Balance().MaxLuckLevel() != 10 {
		t.Fatalf("balance not exposed")
	}
}
