package surface

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

var categoryLabels = map[scoring.CategoryName]string{
	scoring.CategoryEmpathy:          "Empathy",
	scoring.CategoryOpenQuestions:    "Open questions",
	scoring.CategoryConcreteNextStep: "Concrete next step",
	scoring.CategoryAccountability:   "Accountability",
	scoring.CategoryTone:             "Tone",
}

func categoryLabel(c scoring.CategoryName) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func badgeColor(b scoring.Badge) string {
	if noColor() {
		return ""
	}
	switch b {
	case scoring.BadgeGood:
		return colorGreen
	case scoring.BadgeMixed:
		return colorYellow
	case scoring.BadgeNeedsWork:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

// formatPoints prints whole points without a decimal.
func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func (r *TerminalRenderer) RenderFeedback(w io.Writer, fb scoring.FeedbackResult) error {
	writeFeedback(w, fb)
	return nil
}

func (r *TerminalRenderer) RenderResponse(w io.Writer, resp coach.Response) error {
	writeFeedback(w, resp.Feedback)

	label := "CSR reply:"
	if resp.Enriched {
		label = "CSR reply (enriched):"
	}
	fmt.Fprintln(w, label)
	for _, line := range wrapText(resp.CSRReply, 70) {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)

	if len(resp.ActionPlan.Items) == 0 {
		fmt.Fprintln(w, "No action plan.")
		fmt.Fprintln(w)
		return nil
	}
	fmt.Fprintln(w, "Action plan:")
	for _, it := range resp.ActionPlan.Items {
		fmt.Fprintf(w, "  • %s %s\n", bold(it.Title), dim("("+it.Owner+", "+it.When+")"))
		for _, line := range wrapText(it.Detail, 70) {
			fmt.Fprintf(w, "    %s\n", dim(line))
		}
	}
	fmt.Fprintln(w)
	return nil
}

func writeFeedback(w io.Writer, fb scoring.FeedbackResult) {
	bc := badgeColor(fb.Badge)

	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Coaching score %d: %s", fb.Score, colored(string(fb.Badge), bc))))

	maxima := scoring.DefaultRubric().MaxPoints()
	for _, c := range scoring.AllCategories {
		fmt.Fprintf(w, "  %-20s %5s / %s\n", categoryLabel(c), formatPoints(fb.RawScores.Get(c)), formatPoints(maxima[c]))
	}
	fmt.Fprintln(w)

	// Matched phrases, when the breakdown is present
	hasMatches := false
	for _, cr := range fb.Breakdown {
		if len(cr.Matched) == 0 && len(cr.Penalties) == 0 && cr.QuestionMarks == 0 {
			continue
		}
		if !hasMatches {
			fmt.Fprintln(w, "Matched:")
			hasMatches = true
		}
		parts := append([]string(nil), cr.Matched...)
		if cr.QuestionMarks > 0 {
			parts = append(parts, fmt.Sprintf("%d question mark(s)", cr.QuestionMarks))
		}
		for _, p := range cr.Penalties {
			parts = append(parts, colored("-"+p, colorRed))
		}
		fmt.Fprintf(w, "  %s: %s\n", bold(cr.Name), strings.Join(parts, ", "))
	}
	if hasMatches {
		fmt.Fprintln(w)
	}

	if len(fb.Reasons) == 0 {
		fmt.Fprintln(w, "No strengths detected.")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, "Reasons:")
	for _, reason := range fb.Reasons {
		fmt.Fprintf(w, "  • %s\n", reason)
	}
	fmt.Fprintln(w)
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
