// Package reply simulates the CSR's answer to a coaching message.
package reply

import "math/rand/v2"

// Tier is the reply-quality bucket selected from a total score.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// TierFromScore maps a total score to a reply tier. The boundaries match the
// badge thresholds.
func TierFromScore(score int) Tier {
	switch {
	case score < 40:
		return TierLow
	case score < 65:
		return TierMid
	default:
		return TierHigh
	}
}

// Templates holds the candidate sentences for each tier.
var Templates = map[Tier][]string{
	TierLow: {
		"I tried calling but the customer didn't answer. I wasn't sure what to say and didn't push for a commitment.",
		"I left a generic voicemail. They didn't promise a time to call back.",
	},
	TierMid: {
		"I explained our options and asked for a good time to call back — they said maybe next week but didn't commit.",
		"The customer said they're checking funds; I asked for a time and they said they'd call back but no firm time.",
	},
	TierHigh: {
		"I empathized with the customer, asked what would help, and they committed to call back tomorrow at 10am.",
		"I proposed a short payment plan and scheduled a callback next Tuesday, they confirmed the time.",
	},
}

// Closings is appended to every reply in the tier.
var Closings = map[Tier]string{
	TierLow:  " I was worried about pushing too hard.",
	TierMid:  " I can try again if you give me a script.",
	TierHigh: " I can confirm and log the callback in the tracker.",
}

// IntSource yields uniformly distributed integers in [0, n).
type IntSource interface {
	IntN(n int) int
}

// globalSource draws from the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Simulator picks a template for the score's tier.
type Simulator struct {
	src IntSource
}

// NewSimulator returns a Simulator drawing from src. A nil src uses the
// global random generator.
func NewSimulator(src IntSource) *Simulator {
	if src == nil {
		src = globalSource{}
	}
	return &Simulator{src: src}
}

// Reply returns a simulated CSR reply for a total score.
func (s *Simulator) Reply(score int) string {
	tier := TierFromScore(score)
	options := Templates[tier]
	return options[s.src.IntN(len(options))] + Closings[tier]
}
