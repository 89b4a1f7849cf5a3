package main

import (
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show balances, upgrade levels and shop prices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		v := s.game.Snapshot()
		r := newRenderer(os.Stdout)
		r.inventory(v)
		r.shop(v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
