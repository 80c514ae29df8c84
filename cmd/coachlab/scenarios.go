package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachlab/coachlab/pkg/coach"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List practice scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, s := range coach.Scenarios() {
				fmt.Fprintf(w, "%-16s %s\n", s.ID, s.Title)
				fmt.Fprintf(w, "%-16s %s\n", "", s.Description)
			}
			return nil
		},
	}
}
