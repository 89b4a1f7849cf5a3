package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtding233/tavern-gambit/internal/economy"
)

var buyCmd = &cobra.Command{
	Use:   "buy <luck|cards>",
	Short: "Buy one level of an upgrade track",
	Long: `Buy spends saved resources on the next level of a track.

  luck   raises the odds of rarer cards (costs GOLD)
  cards  adds a card to every row (costs MATERIALS)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(economy.Luck), string(economy.Cards)},
	RunE: func(cmd *cobra.Command, args []string) error {
		track, err := economy.ParseTrack(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		before := s.game.Snapshot()
		r := newRenderer(os.Stdout)
		if !s.game.Purchase(track) {
			r.rejected(before, track)
			return fmt.Errorf("cannot buy %s", track)
		}
		after := s.game.Snapshot()
		r.purchased(after, track)
		r.inventory(after)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
}
