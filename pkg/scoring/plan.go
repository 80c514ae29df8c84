package scoring

// WeakThreshold is the fraction of a category's maximum below which the
// category is flagged in the action plan.
const WeakThreshold = 0.9

type planTemplate struct {
	category CategoryName
	item     ActionPlanItem
}

// planTemplates lists remediation items in output order.
var planTemplates = []planTemplate{
	{CategoryEmpathy, ActionPlanItem{
		Title:  "Improve empathy",
		Detail: "Use empathetic phrases and acknowledge customer's situation before asking about payments.",
		When:   "Today",
		Owner:  "Manager",
	}},
	{CategoryOpenQuestions, ActionPlanItem{
		Title:  "Ask open questions",
		Detail: "Use questions starting with 'how', 'what', or 'can you tell me' to encourage CSR explanation.",
		When:   "Today",
		Owner:  "Manager",
	}},
	{CategoryConcreteNextStep, ActionPlanItem{
		Title:  "Set concrete next steps",
		Detail: "Ensure each call ends with a specific commitment and callback time.",
		When:   "Today",
		Owner:  "Manager",
	}},
	{CategoryAccountability, ActionPlanItem{
		Title:  "Ensure accountability",
		Detail: "Confirm CSR will log callbacks and review top 5 at-risk customers daily.",
		When:   "Today",
		Owner:  "Manager",
	}},
}

var maintainItem = ActionPlanItem{
	Title:  "Next steps",
	Detail: "Continue your current coaching approach. Track top 5 at-risk customers and maintain follow-up discipline.",
	When:   "Today",
	Owner:  "Manager",
}

// defaultMax holds the default rubric's per-category maxima.
var defaultMax = DefaultRubric().MaxPoints()

// Weaknesses returns the categories flagged for remediation, in plan order.
func Weaknesses(s CategoryScores) []CategoryName {
	if s.empathyOnly() {
		return []CategoryName{CategoryOpenQuestions, CategoryConcreteNextStep, CategoryAccountability}
	}
	var weak []CategoryName
	for _, t := range planTemplates {
		if s.Get(t.category) < defaultMax[t.category]*WeakThreshold {
			weak = append(weak, t.category)
		}
	}
	return weak
}

// GenerateActionPlan maps the feedback's shortfalls to remediation items.
// A blank message yields an empty plan.
func GenerateActionPlan(message string, feedback FeedbackResult) ActionPlan {
	plan := ActionPlan{Items: []ActionPlanItem{}}
	if trimMessage(message) == "" {
		return plan
	}

	weak := Weaknesses(feedback.RawScores)
	if len(weak) == 0 {
		plan.Items = append(plan.Items, maintainItem)
		return plan
	}
	for _, t := range planTemplates {
		for _, c := range weak {
			if c == t.category {
				plan.Items = append(plan.Items, t.item)
			}
		}
	}
	return plan
}
