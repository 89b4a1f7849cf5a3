package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/reward"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate rewards per round with a Monte Carlo run",
	Long: `Simulate deals many rounds at the given upgrade levels and reports what a
blind pick and a perfect pick would earn, plus the observed rarity mix
against the configured odds. Saved progress is not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		luck, _ := cmd.Flags().GetInt("luck")
		cards, _ := cmd.Flags().GetInt("cards")
		trials, _ := cmd.Flags().GetInt("trials")
		seed, _ := cmd.Flags().GetUint64("seed")
		if trials <= 0 {
			return fmt.Errorf("--trials must be positive")
		}

		cfg, log, err := loadSettings()
		if err != nil {
			return err
		}
		defer log.Sync()
		table, err := balance.NewLoader(cfg.Balance).Load()
		if err != nil {
			return fmt.Errorf("balance: %w", err)
		}

		var rng reward.RandomSource
		if cmd.Flags().Changed("seed") {
			rng = reward.NewSeededRNG(seed)
		}
		up := model.UpgradesState{
			LuckLevel:     model.Clamp(luck, 0, table.MaxLuckLevel()),
			MaxCardsLevel: model.Clamp(cards, 0, table.MaxCardsLevel()),
		}
		rep := reward.Simulate(reward.NewGenerator(table.Reward, rng), up, trials)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "luck %d, cards %d: %d rounds of %d cards\n", up.LuckLevel, up.MaxCardsLevel, rep.Trials, rep.BatchSize)
		fmt.Fprintf(out, "%-11s %8s %8s %6s %6s %6s\n", "", "mean", "stddev", "p50", "p90", "p99")
		for _, row := range []struct {
			name string
			s    reward.Stats
		}{{"blind pick", rep.Pick}, {"best card", rep.Best}} {
			fmt.Fprintf(out, "%-11s %8.2f %8.2f %6.0f %6.0f %6.0f\n", row.name, row.s.Mean, row.s.StdDev, row.s.P50, row.s.P90, row.s.P99)
		}
		fmt.Fprintf(out, "\n%-11s %9s %9s\n", "rarity", "observed", "expected")
		for _, r := range model.Rarities {
			fmt.Fprintf(out, "%-11s %8.3f%% %8.3f%%\n", r, 100*rep.RarityShare[r], 100*rep.Expected.Of(r))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("luck", 0, "luck level to simulate")
	simulateCmd.Flags().Int("cards", 0, "card slot level to simulate")
	simulateCmd.Flags().Int("trials", 100000, "number of rounds")
	simulateCmd.Flags().Uint64("seed", 0, "seed for a reproducible run")
}
