// Package scoring implements the coachlab rubric engine.
// It evaluates a manager's coaching message against a fixed set of rubric
// categories and produces an explainable, deterministic feedback result.
package scoring

// CategoryName identifies one rubric category.
type CategoryName string

const (
	CategoryEmpathy          CategoryName = "empathy"
	CategoryOpenQuestions    CategoryName = "openQuestions"
	CategoryConcreteNextStep CategoryName = "concreteNextStep"
	CategoryAccountability   CategoryName = "accountability"
	CategoryTone             CategoryName = "tone"
)

// AllCategories lists the rubric categories in display order.
var AllCategories = []CategoryName{
	CategoryEmpathy,
	CategoryOpenQuestions,
	CategoryConcreteNextStep,
	CategoryAccountability,
	CategoryTone,
}

// Valid reports whether c is one of the five rubric categories.
func (c CategoryName) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Badge is the qualitative label derived from a total score.
type Badge string

const (
	BadgeGood      Badge = "Good coaching"
	BadgeMixed     Badge = "Mixed"
	BadgeNeedsWork Badge = "Needs work"
)

// CategoryScores holds the point value earned in each category.
type CategoryScores struct {
	Empathy          float64 `json:"empathy"`
	OpenQuestions    float64 `json:"openQuestions"`
	ConcreteNextStep float64 `json:"concreteNextStep"`
	Accountability   float64 `json:"accountability"`
	Tone             float64 `json:"tone"`
}

// Get returns the points for a category, or 0 for an unknown name.
func (s CategoryScores) Get(name CategoryName) float64 {
	switch name {
	case CategoryEmpathy:
		return s.Empathy
	case CategoryOpenQuestions:
		return s.OpenQuestions
	case CategoryConcreteNextStep:
		return s.ConcreteNextStep
	case CategoryAccountability:
		return s.Accountability
	case CategoryTone:
		return s.Tone
	default:
		return 0
	}
}

func (s *CategoryScores) set(name CategoryName, points float64) {
	switch name {
	case CategoryEmpathy:
		s.Empathy = points
	case CategoryOpenQuestions:
		s.OpenQuestions = points
	case CategoryConcreteNextStep:
		s.ConcreteNextStep = points
	case CategoryAccountability:
		s.Accountability = points
	case CategoryTone:
		s.Tone = points
	}
}

// Sum returns the unrounded total of all category points.
func (s CategoryScores) Sum() float64 {
	return s.Empathy + s.OpenQuestions + s.ConcreteNextStep + s.Accountability + s.Tone
}

// nonEmpathySum is the total of every category except empathy.
func (s CategoryScores) nonEmpathySum() float64 {
	return s.OpenQuestions + s.ConcreteNextStep + s.Accountability + s.Tone
}

// empathyOnly reports whether empathy is the only category that scored.
func (s CategoryScores) empathyOnly() bool {
	return s.Empathy > 0 &&
		s.OpenQuestions == 0 &&
		s.ConcreteNextStep == 0 &&
		s.Accountability == 0 &&
		s.Tone == 0
}

// FeedbackResult is the complete output of scoring one manager message.
// Immutable once computed.
type FeedbackResult struct {
	RawScores CategoryScores   `json:"rawScores"`
	Score     int              `json:"score"` // 0-100
	Badge     Badge            `json:"badge"`
	Reasons   []string         `json:"reasons"`
	Breakdown []CategoryResult `json:"breakdown,omitempty"`
}

// CategoryResult is the auditable output of a single rubric category.
type CategoryResult struct {
	Key           CategoryName `json:"key"`
	Name          string       `json:"name"`
	Hits          int          `json:"hits"`         // distinct patterns found (plus '?' for open questions)
	CountedHits   int          `json:"counted_hits"` // hits after the category cap
	Points        float64      `json:"points"`
	MaxPoints     float64      `json:"max_points"`
	Matched       []string     `json:"matched,omitempty"`
	Penalties     []string     `json:"penalties,omitempty"` // negative tone phrases
	QuestionMarks int          `json:"question_marks,omitempty"`
}

// ActionPlanItem is one remediation step for the manager.
type ActionPlanItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	When   string `json:"when"`
	Owner  string `json:"owner"`
}

// ActionPlan is an ordered list of remediation steps.
type ActionPlan struct {
	Items []ActionPlanItem `json:"items"`
}

// BadgeFromScore maps a total score to a badge.
func BadgeFromScore(score int) Badge {
	switch {
	case score >= 65:
		return BadgeGood
	case score >= 40:
		return BadgeMixed
	default:
		return BadgeNeedsWork
	}
}
