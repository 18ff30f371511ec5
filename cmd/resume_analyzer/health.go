package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	msg, err := a.backend.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend at %s is not healthy: %w", a.cfg.APIURL, err)
	}

	_, _ = fmt.Fprintln(a.out, msg)
	return nil
}
