// Package coach runs a full coaching exchange: score the manager's message,
// simulate the CSR reply, build the action plan, and optionally let an
// Enricher rewrite the reply.
package coach

import (
	"context"

	"go.uber.org/zap"

	"github.com/coachlab/coachlab/pkg/reply"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// Speaker identifies who wrote a conversation turn.
type Speaker string

const (
	SpeakerManager Speaker = "manager"
	SpeakerCSR     Speaker = "csr"
)

// Turn is one line of prior conversation. It is carried for context and is
// not scored.
type Turn struct {
	From Speaker `json:"from"`
	Text string  `json:"text"`
}

// Request is one coaching exchange.
type Request struct {
	ScenarioID     string `json:"scenarioId"`
	Conversation   []Turn `json:"conversation"`
	ManagerMessage string `json:"managerMessage"`
}

// withDefaults fills missing fields.
func (r Request) withDefaults() Request {
	if r.ScenarioID == "" {
		r.ScenarioID = DefaultScenarioID
	}
	if r.Conversation == nil {
		r.Conversation = []Turn{}
	}
	return r
}

// Response is the result of a coaching exchange.
type Response struct {
	CSRReply   string                 `json:"csrReply"`
	Feedback   scoring.FeedbackResult `json:"feedback"`
	ActionPlan scoring.ActionPlan     `json:"actionPlan"`
	// Enriched is set when an Enricher replaced the rule-based reply.
	Enriched bool `json:"enriched,omitempty"`
}

// EnrichmentInput is everything an Enricher may use to improve a reply.
type EnrichmentInput struct {
	ScenarioID     string
	Scenario       Scenario
	Conversation   []Turn
	ManagerMessage string
	CSRReply       string
	Feedback       scoring.FeedbackResult
}

// Enricher optionally rewrites the rule-based reply. Returning "" means no
// change. Errors are logged by the Coach and never surfaced.
type Enricher interface {
	ImproveReply(ctx context.Context, in EnrichmentInput) (string, error)
}

// NopEnricher never changes the reply.
type NopEnricher struct{}

func (NopEnricher) ImproveReply(context.Context, EnrichmentInput) (string, error) { return "", nil }

// Coach is safe for concurrent use when its Enricher is.
type Coach struct {
	engine   *scoring.Engine
	replies  *reply.Simulator
	enricher Enricher
	logger   *zap.Logger
}

// New creates a Coach. Nil arguments fall back to the default engine, a
// simulator over the global random source, NopEnricher, and a no-op logger.
func New(engine *scoring.Engine, replies *reply.Simulator, enricher Enricher, logger *zap.Logger) *Coach {
	if engine == nil {
		engine = scoring.NewDefaultEngine()
	}
	if replies == nil {
		replies = reply.NewSimulator(nil)
	}
	if enricher == nil {
		enricher = NopEnricher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{engine: engine, replies: replies, enricher: enricher, logger: logger}
}

// Score evaluates a message without simulating a reply.
func (c *Coach) Score(message string) scoring.FeedbackResult {
	return c.engine.Evaluate(message)
}

// Handle runs one exchange. It always returns a complete Response.
func (c *Coach) Handle(ctx context.Context, req Request) Response {
	req = req.withDefaults()

	feedback := c.engine.Evaluate(req.ManagerMessage)
	resp := Response{
		CSRReply:   c.replies.Reply(feedback.Score),
		Feedback:   feedback,
		ActionPlan: scoring.GenerateActionPlan(req.ManagerMessage, feedback),
	}

	improved, err := c.enricher.ImproveReply(ctx, EnrichmentInput{
		ScenarioID:     req.ScenarioID,
		Scenario:       LookupScenario(req.ScenarioID),
		Conversation:   req.Conversation,
		ManagerMessage: req.ManagerMessage,
		CSRReply:       resp.CSRReply,
		Feedback:       feedback,
	})
	switch {
	case err != nil:
		c.logger.Warn("enrichment failed, keeping rule-based reply",
			zap.String("scenario", req.ScenarioID),
			zap.Error(err),
		)
	case improved != "":
		resp.CSRReply = improved
		resp.Enriched = true
	}

	return resp
}
