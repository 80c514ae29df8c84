package scoring

// DefaultMetrics returns the metrics for the default rubric.
func DefaultMetrics() []Metric {
	return MetricsFromRubric(DefaultRubric())
}

// MetricsFromRubric builds one metric per rubric row followed by tone.
func MetricsFromRubric(r Rubric) []Metric {
	metrics := make([]Metric, 0, len(r.Categories)+1)
	for _, rule := range r.Categories {
		metrics = append(metrics, NewKeywordMetric(rule))
	}
	return append(metrics, NewToneMetric(r.Tone))
}
