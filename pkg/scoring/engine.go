package scoring

import "math"

// Input is a manager message prepared for evaluation.
type Input struct {
	Raw        string
	Normalized string
}

// NewInput trims and normalizes a raw message.
func NewInput(message string) Input {
	return Input{Raw: message, Normalized: Normalize(message)}
}

// Metric is the interface that all rubric categories implement.
type Metric interface {
	// Key returns the machine-readable category identifier.
	Key() CategoryName
	// Name returns the human-readable category name.
	Name() string
	// Evaluate computes the category's points for a message.
	Evaluate(in Input) CategoryResult
}

// KeywordMetric scores a category by counting distinct keyword hits.
type KeywordMetric struct {
	Rule     CategoryRule
	patterns *PatternSet
}

// NewKeywordMetric compiles the rule's keyword list once.
func NewKeywordMetric(rule CategoryRule) *KeywordMetric {
	return &KeywordMetric{Rule: rule, patterns: CompilePatterns(rule.Keywords)}
}

func (m *KeywordMetric) Key() CategoryName { return m.Rule.Key }
func (m *KeywordMetric) Name() string      { return m.Rule.Name }

func (m *KeywordMetric) Evaluate(in Input) CategoryResult {
	matched := m.patterns.Matched(in.Normalized)
	hits := len(matched)

	var qm int
	if m.Rule.CountQuestionMarks {
		qm = QuestionMarks(in.Raw)
		hits += qm
	}
	counted := min(hits, m.Rule.Cap)

	return CategoryResult{
		Key:           m.Rule.Key,
		Name:          m.Rule.Name,
		Hits:          hits,
		CountedHits:   counted,
		Points:        float64(counted) * m.Rule.PointsPerHit,
		MaxPoints:     m.Rule.MaxPoints(),
		Matched:       matched,
		QuestionMarks: qm,
	}
}

// ToneMetric scores positive phrasing net of negative phrasing, floored at 0.
type ToneMetric struct {
	Rule     ToneRule
	positive *PatternSet
	negative *PatternSet
}

// NewToneMetric compiles both tone lists once.
func NewToneMetric(rule ToneRule) *ToneMetric {
	return &ToneMetric{
		Rule:     rule,
		positive: CompilePatterns(rule.Positive),
		negative: CompilePatterns(rule.Negative),
	}
}

func (m *ToneMetric) Key() CategoryName { return CategoryTone }
func (m *ToneMetric) Name() string      { return "Tone" }

func (m *ToneMetric) Evaluate(in Input) CategoryResult {
	pos := m.positive.Matched(in.Normalized)
	neg := m.negative.Matched(in.Normalized)
	net := max(0, len(pos)-len(neg))
	counted := min(net, m.Rule.Cap)

	return CategoryResult{
		Key:         CategoryTone,
		Name:        m.Name(),
		Hits:        net,
		CountedHits: counted,
		Points:      float64(counted) * m.Rule.PointsPerStep,
		MaxPoints:   m.Rule.MaxPoints(),
		Matched:     pos,
		Penalties:   neg,
	}
}

// Engine runs all configured metrics against a message and produces a
// FeedbackResult. An Engine is immutable and safe for concurrent use.
type Engine struct {
	metrics []Metric
}

// NewEngine creates a scoring engine with the given metrics.
func NewEngine(metrics ...Metric) *Engine {
	return &Engine{metrics: metrics}
}

// NewDefaultEngine creates an engine over the default rubric.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultMetrics()...)
}

// Metrics returns the engine's metrics in evaluation order.
func (e *Engine) Metrics() []Metric {
	return append([]Metric(nil), e.metrics...)
}

// Evaluate scores a message. It never fails: an empty message scores 0 with
// no reasons.
func (e *Engine) Evaluate(message string) FeedbackResult {
	in := NewInput(message)

	result := FeedbackResult{Reasons: []string{}}
	for _, m := range e.metrics {
		cr := m.Evaluate(in)
		result.Breakdown = append(result.Breakdown, cr)
		result.RawScores.set(cr.Key, cr.Points)
	}

	result.Score = roundScore(result.RawScores.Sum())
	result.Badge = BadgeFromScore(result.Score)
	result.Reasons = deriveReasons(result.RawScores, result.Score)

	return result
}

// roundScore rounds half up and clamps to [0, 100].
func roundScore(sum float64) int {
	score := int(math.Floor(sum + 0.5))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
