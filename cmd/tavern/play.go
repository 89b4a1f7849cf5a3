package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/tavern"
)

const balancePoll = 2 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the tavern and start drawing cards",
	Long: `Play starts an interactive session. Each round a row of face-down cards
is dealt; type a card number to reveal it and collect its reward.

Commands:
  1..N            pick a card
  shop            open or close the shop
  buy luck|cards  buy an upgrade (shop must be open)
  reset           erase all progress
  quit            leave the tavern

A configured balance override is re-read whenever the file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		r := newRenderer(os.Stdout)
		var drawMu sync.Mutex
		draw := func(v tavern.View) {
			drawMu.Lock()
			defer drawMu.Unlock()
			r.board(v)
		}
		s.game.OnChange(draw)

		reloader := balance.NewReloader(s.loader, balancePoll, func(t balance.Table, err error) {
			if err != nil {
				s.log.Warn("balance reload rejected, keeping current table", zap.Error(err))
				return
			}
			s.game.SetBalance(t)
		})
		reloader.Start()
		defer reloader.Stop()

		draw(s.game.Snapshot())
		return playLoop(ctx, s, readLines(os.Stdin), draw)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}

// playLoop applies typed commands until quit, EOF or ctx is done. redraw
// is used for input that changes nothing, so the prompt comes back.
func playLoop(ctx context.Context, s *session, lines <-chan string, redraw func(tavern.View)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleCommand(ctx, s, strings.Fields(strings.ToLower(line)), redraw); quit {
				return nil
			}
		}
	}
}

func handleCommand(ctx context.Context, s *session, fields []string, redraw func(tavern.View)) (quit bool) {
	if len(fields) == 0 {
		redraw(s.game.Snapshot())
		return false
	}
	changed := false
	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "shop", "s":
		s.game.SetShopOpen(!s.game.Snapshot().ShopOpen)
		changed = true
	case "buy", "b":
		if len(fields) == 2 && s.game.Snapshot().ShopOpen {
			if id, err := economy.ParseTrack(fields[1]); err == nil {
				changed = s.game.Purchase(id)
			}
		}
	case "reset":
		if err := s.game.ResetProgress(ctx); err != nil {
			s.log.Error("reset from play failed", zap.Error(err))
		}
		changed = true
	default:
		if n, err := strconv.Atoi(fields[0]); err == nil {
			changed = s.game.SelectIndex(n - 1)
		}
	}
	if !changed {
		redraw(s.game.Snapshot())
	}
	return false
}
