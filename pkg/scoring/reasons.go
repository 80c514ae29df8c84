package scoring

// Reason strings shown alongside a score.
const (
	ReasonEmpathy        = "Showed empathy"
	ReasonOpenQuestions  = "Used open questions"
	ReasonNextStep       = "Offered a concrete next step"
	ReasonAccountability = "Set accountability or follow-up"
	ReasonImprove        = "Consider more collaborative open questions and a clear next step"
)

// improveBelow is the score under which the generic suggestion is appended.
const improveBelow = 50

func deriveReasons(s CategoryScores, score int) []string {
	// An empathy-only message shows just the empathy reason.
	if s.empathyOnly() {
		return []string{ReasonEmpathy}
	}

	reasons := []string{}
	if s.Empathy > 0 {
		reasons = append(reasons, ReasonEmpathy)
	}
	if s.OpenQuestions > 0 {
		reasons = append(reasons, ReasonOpenQuestions)
	}
	if s.ConcreteNextStep > 0 {
		reasons = append(reasons, ReasonNextStep)
	}
	if s.Accountability > 0 {
		reasons = append(reasons, ReasonAccountability)
	}
	if score < improveBelow && s.nonEmpathySum() > 0 {
		reasons = append(reasons, ReasonImprove)
	}
	return reasons
}
