package scoring

import "fmt"

// HitCap is the number of distinct hits that count toward any category.
const HitCap = 2

// Keyword tables for the default rubric. Edits here change scoring behavior
// and must be reflected in the per-category tests.
var (
	EmpathyKeywords = []string{
		"i understand", "i'm sorry", "sorry", "understand", "tough", "hard", "i get it",
		"that sounds", "i can imagine", "i know",
	}
	OpenQuestionKeywords = []string{
		"how", "what", "why", "can you tell", "help me understand", "could you", "would you",
	}
	ConcreteNextStepKeywords = []string{
		"by", "when", "call back", "schedule", "commit", "set a time", "follow up", "today", "tomorrow", "next",
	}
	AccountabilityKeywords = []string{
		"i will", "we'll", "we will", "you will", "let's", "lets agree", "i'll check", "i will check", "assign", "manager to review",
	}
	PositiveToneKeywords = []string{
		"thanks", "thank you", "appreciate", "good", "great", "let's work",
	}
	NegativeToneKeywords = []string{
		"why didn't", "you didn't", "fail", "never", "shame", "blame", "should have", "should've",
	}
)

// CategoryRule is one row of the keyword rubric table.
type CategoryRule struct {
	Key          CategoryName
	Name         string
	Keywords     []string
	Cap          int
	PointsPerHit float64
	// CountQuestionMarks adds one hit per literal '?' in the raw message.
	CountQuestionMarks bool
}

// MaxPoints is the most a category can contribute.
func (r CategoryRule) MaxPoints() float64 {
	return float64(r.Cap) * r.PointsPerHit
}

// ToneRule scores positive phrasing net of negative phrasing.
type ToneRule struct {
	Positive      []string
	Negative      []string
	Cap           int
	PointsPerStep float64
}

// MaxPoints is the most tone can contribute.
func (r ToneRule) MaxPoints() float64 {
	return float64(r.Cap) * r.PointsPerStep
}

// Rubric is the declarative scoring table consumed by the engine.
type Rubric struct {
	Categories []CategoryRule
	Tone       ToneRule
}

// DefaultRubric returns the standard coaching rubric. Maxima sum to 100.
func DefaultRubric() Rubric {
	return Rubric{
		Categories: []CategoryRule{
			{
				Key:          CategoryEmpathy,
				Name:         "Empathy",
				Keywords:     EmpathyKeywords,
				Cap:          HitCap,
				PointsPerHit: 10,
			},
			{
				Key:                CategoryOpenQuestions,
				Name:               "Open questions",
				Keywords:           OpenQuestionKeywords,
				Cap:                HitCap,
				PointsPerHit:       10,
				CountQuestionMarks: true,
			},
			{
				Key:          CategoryConcreteNextStep,
				Name:         "Concrete next step",
				Keywords:     ConcreteNextStepKeywords,
				Cap:          HitCap,
				PointsPerHit: 12.5,
			},
			{
				Key:          CategoryAccountability,
				Name:         "Accountability",
				Keywords:     AccountabilityKeywords,
				Cap:          HitCap,
				PointsPerHit: 10,
			},
		},
		Tone: ToneRule{
			Positive:      PositiveToneKeywords,
			Negative:      NegativeToneKeywords,
			Cap:           HitCap,
			PointsPerStep: 7.5,
		},
	}
}

// MaxPoints returns the per-category maximum for every category in the rubric.
func (r Rubric) MaxPoints() map[CategoryName]float64 {
	out := make(map[CategoryName]float64, len(r.Categories)+1)
	for _, c := range r.Categories {
		out[c.Key] = c.MaxPoints()
	}
	out[CategoryTone] = r.Tone.MaxPoints()
	return out
}

// NegativeToneKey names the extra-keyword list that feeds negative tone.
const NegativeToneKey = "toneNegative"

// WithExtraKeywords returns a copy of the rubric with additional phrases
// appended to the named categories. Phrases under "tone" extend the positive
// list and phrases under NegativeToneKey extend the negative list.
func (r Rubric) WithExtraKeywords(extra map[string][]string) (Rubric, error) {
	out := Rubric{
		Categories: make([]CategoryRule, len(r.Categories)),
		Tone: ToneRule{
			Positive:      append([]string(nil), r.Tone.Positive...),
			Negative:      append([]string(nil), r.Tone.Negative...),
			Cap:           r.Tone.Cap,
			PointsPerStep: r.Tone.PointsPerStep,
		},
	}
	copy(out.Categories, r.Categories)

	for name, phrases := range extra {
		switch key := CategoryName(name); {
		case name == NegativeToneKey:
			out.Tone.Negative = append(out.Tone.Negative, phrases...)
		case key == CategoryTone:
			out.Tone.Positive = append(out.Tone.Positive, phrases...)
		case key.Valid():
			for i := range out.Categories {
				if out.Categories[i].Key == key {
					kw := append([]string(nil), out.Categories[i].Keywords...)
					out.Categories[i].Keywords = append(kw, phrases...)
				}
			}
		default:
			return Rubric{}, fmt.Errorf("unknown rubric category %q", name)
		}
	}
	return out, nil
}
