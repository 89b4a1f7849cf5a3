package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/config"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Inspect balance overrides",
}

var balanceValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a balance override file against the stock table",
	Long: `Validate merges a YAML override over the stock balance table and reports
every problem found. Without a path the override named in the config file
is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			path = cfg.Balance
		}
		if path == "" {
			return fmt.Errorf("no balance override configured; pass a path")
		}

		t, err := balance.ValidateFile(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok (version %s)\n", path, t.Version)
		fmt.Fprintf(out, "  luck:  %s base %.0f growth %.2f max %d\n", t.Luck.Currency, t.Luck.Base, t.Luck.Growth, t.Luck.MaxLevel)
		fmt.Fprintf(out, "  cards: %s base %.0f growth %.2f max %d\n", t.Cards.Currency, t.Cards.Base, t.Cards.Growth, t.Cards.MaxLevel)
		fmt.Fprintf(out, "  round: reveal %s reset %s\n", t.Timing.RevealDwell, t.Timing.ResetDelay)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceValidateCmd)
}
