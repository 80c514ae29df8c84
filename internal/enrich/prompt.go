package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// SystemPrompt frames every enrichment request.
const SystemPrompt = "You are a concise internal coaching assistant for retail branch managers helping reduce PAR90. Keep replies brief (1-3 sentences)."

// maxConversationTurns bounds how much prior conversation goes into a prompt.
const maxConversationTurns = 6

// feedbackView is the part of the feedback shown to the model.
type feedbackView struct {
	RawScores scoring.CategoryScores `json:"rawScores"`
	Score     int                    `json:"score"`
	Badge     scoring.Badge          `json:"badge"`
	Reasons   []string               `json:"reasons"`
}

// BuildUserPrompt renders the user turn for an enrichment request.
func BuildUserPrompt(in coach.EnrichmentInput) (string, error) {
	fb, err := json.Marshal(feedbackView{
		RawScores: in.Feedback.RawScores,
		Score:     in.Feedback.Score,
		Badge:     in.Feedback.Badge,
		Reasons:   in.Feedback.Reasons,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling feedback: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s", in.ScenarioID)
	if in.Scenario.Description != "" {
		fmt.Fprintf(&b, " (%s)", in.Scenario.Description)
	}
	b.WriteString(". ")

	turns := in.Conversation
	if len(turns) > maxConversationTurns {
		turns = turns[len(turns)-maxConversationTurns:]
	}
	if len(turns) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.From, t.Text)
		}
	}

	fmt.Fprintf(&b, "Manager message: %s. ", in.ManagerMessage)
	fmt.Fprintf(&b, "Current CSR reply (rule-based): %s. ", in.CSRReply)
	fmt.Fprintf(&b, "Coaching feedback: %s. ", fb)
	fmt.Fprintf(&b, "Produce a more natural CSR reply consistent with score %d. ", in.Feedback.Score)
	b.WriteString("Also, propose a single 2-line action plan item.")
	return b.String(), nil
}

// ParseReply keeps the first paragraph of a model answer, the reply proper.
// The action plan suggestion that follows is discarded.
func ParseReply(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		// The opening fence runs to the end of its line, language tag included.
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	first, _, _ := strings.Cut(text, "\n\n")
	return strings.TrimSpace(first)
}
