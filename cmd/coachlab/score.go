package main

import (
	"github.com/spf13/cobra"

	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/surface"
)

func newScoreCmd(configPath *string) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "score [message]",
		Short: "Score a coaching message against the rubric",
		Long:  `Scores the message given as arguments, or read from stdin, and prints the feedback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := surface.ForFormat(outputFmt)
			if err != nil {
				return err
			}
			msg, err := readMessage(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := config.Resolve(*configPath)
			if err != nil {
				return err
			}
			engine, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			return renderer.RenderFeedback(cmd.OutOrStdout(), engine.Evaluate(msg))
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json, or markdown")
	return cmd
}
