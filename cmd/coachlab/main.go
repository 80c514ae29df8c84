// Package main provides the coachlab CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "coachlab",
		Short: "Rubric scoring for collections coaching messages",
		Long: `Coachlab scores a branch manager's coaching message against a fixed rubric,
simulates the CSR's reply, and builds an action plan for the manager.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .coachlab/config.yaml or $COACHLAB_CONFIG)")

	rootCmd.AddCommand(
		newScoreCmd(&configPath),
		newCoachCmd(&configPath),
		newScenariosCmd(),
		newServeCmd(&configPath),
	)
	return rootCmd
}
