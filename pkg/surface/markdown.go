package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// MarkdownRenderer produces a Markdown summary suitable for pasting into a
// coaching log or pull request.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) RenderFeedback(w io.Writer, fb scoring.FeedbackResult) error {
	_, err := io.WriteString(w, buildFeedbackMarkdown(fb))
	return err
}

func (r *MarkdownRenderer) RenderResponse(w io.Writer, resp coach.Response) error {
	var sb strings.Builder
	sb.WriteString(buildFeedbackMarkdown(resp.Feedback))

	sb.WriteString("### CSR reply\n\n")
	fmt.Fprintf(&sb, "> %s\n\n", resp.CSRReply)

	sb.WriteString("### Action plan\n\n")
	if len(resp.ActionPlan.Items) == 0 {
		sb.WriteString("_No message to act on._\n")
	}
	for _, it := range resp.ActionPlan.Items {
		fmt.Fprintf(&sb, "- **%s** (%s, %s): %s\n", it.Title, it.Owner, it.When, it.Detail)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func badgeIcon(b scoring.Badge) string {
	switch b {
	case scoring.BadgeGood:
		return ":green_circle:"
	case scoring.BadgeMixed:
		return ":yellow_circle:"
	default:
		return ":red_circle:"
	}
}

func buildFeedbackMarkdown(fb scoring.FeedbackResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s %s: Score %d\n\n", badgeIcon(fb.Badge), fb.Badge, fb.Score)

	sb.WriteString("| Category | Points | Max |\n|----------|--------|-----|\n")
	maxima := scoring.DefaultRubric().MaxPoints()
	for _, c := range scoring.AllCategories {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", categoryLabel(c), formatPoints(fb.RawScores.Get(c)), formatPoints(maxima[c]))
	}
	sb.WriteString("\n")

	if len(fb.Reasons) > 0 {
		sb.WriteString("### Reasons\n\n")
		for _, reason := range fb.Reasons {
			fmt.Fprintf(&sb, "- %s\n", reason)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
