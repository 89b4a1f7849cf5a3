package main

import (
	"fmt"
	"strconv"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
)

var planCmd = &cobra.Command{
	Use:   "plan <luck|cards> [level]",
	Short: "Price the road to an upgrade level",
	Long: `Plan lists the cost of every level from the saved level up to the target
(mastery when omitted), what the saved balances already cover, and a rough
number of rounds needed to earn the rest at the current upgrades.`,
	Args:      cobra.RangeArgs(1, 2),
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

		table := s.game.Balance()
		target := table.MaxLuckLevel()
		if track == economy.Cards {
			target = table.MaxCardsLevel()
		}
		if len(args) == 2 {
			if target, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("level %q: %w", args[1], err)
			}
		}
		trials, _ := cmd.Flags().GetInt("trials")

		v := s.game.Snapshot()
		p := s.game.Plan(track, target)
		rep := reward.Simulate(reward.NewGenerator(table.Reward, nil), v.Upgrades, trials)
		perRound := rep.Pick.Mean / float64(len(model.ResourceTypes))

		out := cmd.OutOrStdout()
		if len(p.Steps) == 0 {
			fmt.Fprintf(out, "%s is already at level %d\n", track, p.From)
			return nil
		}
		for i, st := range p.Steps {
			mark := colorize.RedString("needs saving")
			if i < p.Affordable {
				mark = colorize.GreenString("covered")
			}
			fmt.Fprintf(out, "  level %2d  %-16s %s\n", st.Level, costString(st.Cost), mark)
		}
		fmt.Fprintf(out, "total %s", costString(p.Total))
		if len(p.Shortfall) == 0 {
			fmt.Fprintln(out, ", all covered")
			return nil
		}
		fmt.Fprintf(out, ", short %s\n", costString(p.Shortfall))
		if r := p.RoundsToAfford(perRound); r >= 0 {
			fmt.Fprintf(out, "about %d rounds at %.1f per currency per round\n", r, perRound)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().Int("trials", 20000, "rounds simulated for the income estimate")
}
