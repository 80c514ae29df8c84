package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/enrich"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/reply"
	"github.com/coachlab/coachlab/pkg/surface"
)

type coachOpts struct {
	scenario  string
	seed      uint64
	seeded    bool
	useEnrich bool
	outputFmt string
}

func newCoachCmd(configPath *string) *cobra.Command {
	var opts coachOpts

	cmd := &cobra.Command{
		Use:   "coach [message]",
		Short: "Run a full coaching exchange",
		Long: `Scores the message, simulates the CSR's reply, and prints the action plan.
With --enrich the configured LLM provider may rewrite the reply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seeded = cmd.Flags().Changed("seed")
			msg, err := readMessage(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCoach(cmd, *configPath, msg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", coach.DefaultScenarioID, "Scenario ID (see 'coachlab scenarios')")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for the reply template choice")
	cmd.Flags().BoolVar(&opts.useEnrich, "enrich", false, "Let the configured LLM provider improve the reply")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json, or markdown")
	return cmd
}

func runCoach(cmd *cobra.Command, configPath, msg string, opts coachOpts) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if !coach.KnownScenario(opts.scenario) {
		fmt.Fprintf(stderr, "Unknown scenario %q, using %q context\n", opts.scenario, coach.DefaultScenarioID)
	}

	var src reply.IntSource
	if opts.seeded {
		src = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}

	var enricher coach.Enricher = coach.NopEnricher{}
	live := false
	if opts.useEnrich {
		enricher, err = enrich.New(cfg.Enrichment, zap.NewNop())
		if err != nil {
			return err
		}
		_, nop := enricher.(coach.NopEnricher)
		live = !nop
		if nop {
			fmt.Fprintf(stderr, "No API key for provider %q, using rule-based reply\n", firstNonEmpty(cfg.Enrichment.Provider, "none"))
		}
	}

	c := coach.New(engine, reply.NewSimulator(src), enricher, nil)
	resp := c.Handle(cmd.Context(), coach.Request{
		ScenarioID:     opts.scenario,
		ManagerMessage: msg,
	})
	if live && !resp.Enriched {
		fmt.Fprintln(stderr, "Enrichment made no change")
	}
	return renderer.RenderResponse(cmd.OutOrStdout(), resp)
}
