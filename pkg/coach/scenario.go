package coach

// DefaultScenarioID is used when a request names no scenario.
const DefaultScenarioID = "default"

// Scenario is a practice situation shown to the manager. Scenarios provide
// context only and never change scoring.
type Scenario struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var scenarios = []Scenario{
	{
		ID:          DefaultScenarioID,
		Title:       "Missed callback",
		Description: "Missed callback; customer uncertain about funds. CSR nervous about pressing.",
	},
	{
		ID:          "noAnswer",
		Title:       "No answer",
		Description: "No answer; wrong number flagged. Need to verify contact details and reattempt.",
	},
	{
		ID:          "promisedMissed",
		Title:       "Promise missed",
		Description: "Customer promised a callback but missed it; CSR missed the follow-up.",
	},
}

// Scenarios returns the catalog in display order.
func Scenarios() []Scenario {
	return append([]Scenario(nil), scenarios...)
}

// LookupScenario returns the scenario with the given ID, or the default
// scenario for an unknown ID.
func LookupScenario(id string) Scenario {
	for _, s := range scenarios {
		if s.ID == id {
			return s
		}
	}
	return scenarios[0]
}

// KnownScenario reports whether id is in the catalog.
func KnownScenario(id string) bool {
	for _, s := range scenarios {
		if s.ID == id {
			return true
		}
	}
	return false
}
