// Package surface defines output rendering for coaching results.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// Renderer produces formatted output from scoring and coaching results.
type Renderer interface {
	// RenderFeedback writes a scored message.
	RenderFeedback(w io.Writer, fb scoring.FeedbackResult) error
	// RenderResponse writes a full coaching exchange.
	RenderResponse(w io.Writer, resp coach.Response) error
}

// ForFormat returns the renderer for an --output value.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or markdown)", format)
	}
}
