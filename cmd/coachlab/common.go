package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// readMessage joins positional args, or reads stdin when there are none.
func readMessage(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// buildEngine returns an engine over the configured rubric.
func buildEngine(cfg *config.Config) (*scoring.Engine, error) {
	rubric, err := cfg.Rubric()
	if err != nil {
		return nil, fmt.Errorf("building rubric: %w", err)
	}
	return scoring.NewEngine(scoring.MetricsFromRubric(rubric)...), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
