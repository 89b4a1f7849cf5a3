package main

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
	"github.com/xtding233/tavern-gambit/internal/round"
	"github.com/xtding233/tavern-gambit/internal/save"
	"github.com/xtding233/tavern-gambit/internal/tavern"
)

func testSession(t *testing.T, inventory string) (*session, *round.ManualScheduler) {
	t.Helper()
	ctx := context.Background()
	store := save.NewMemoryStore()
	if inventory != "" {
		_ = store.Save(ctx, save.InventoryKey, []byte(inventory))
	}
	sched := round.NewManualScheduler()
	g, err := tavern.New(ctx, tavern.Options{
		Store:     store,
		Balance:   balance.Default(),
		RNG:       reward.NewSeededRNG(1),
		Scheduler: sched,
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	s := &session{log: zap.NewNop(), game: g}
	t.Cleanup(s.Close)
	return s, sched
}

func run(t *testing.T, s *session, cmds ...string) int {
	t.Helper()
	lines := make(chan string, len(cmds))
	for _, c := range cmds {
		lines <- c
	}
	close(lines)
	redraws := 0
	if err := playLoop(context.Background(), s, lines, func(tavern.View) { redraws++ }); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	return redraws
}

func TestPlayPickAndShop(t *testing.T) {
	s, _ := testSession(t, `{"GOLD":100,"MATERIALS":0}`)

	run(t, s, "buy luck")
	if s.game.Snapshot().Upgrades.LuckLevel != 0 {
		t.Fatalf("buy must require the shop to be open")
	}

	run(t, s, "shop", "1", "buy luck", "shop")
	v := s.game.Snapshot()
	if v.Upgrades.LuckLevel != 1 || v.Inventory[model.Gold] != 0 {
		t.Fatalf("purchase through shop: %+v %v", v.Upgrades, v.Inventory)
	}
	if v.Phase != round.Idle || v.ShopOpen {
		t.Fatalf("pick with shop open must be ignored; phase %s shop %v", v.Phase, v.ShopOpen)
	}

	run(t, s, "1")
	if s.game.Snapshot().Phase != round.Revealed {
		t.Fatalf("pick did not reveal")
	}
}

func TestPlayIgnoredInputRedraws(t *testing.T) {
	s, _ := testSession(t, "")
	if n := run(t, s, "", "dance", "9", "buy gems"); n != 4 {
		t.Fatalf("ignored input should redraw the prompt, got %d redraws", n)
	}
}

func TestPlayQuitStopsReading(t *testing.T) {
	s, _ := testSession(t, "")
	run(t, s, "quit", "1")
	if s.game.Snapshot().Phase != round.Idle {
		t.Fatalf("input after quit was handled")
	}
}
