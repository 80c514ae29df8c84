// Package enrich rewrites the rule-based CSR reply with a language model.
package enrich

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/coachlab/coachlab/internal/metrics"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/config"
)

// Provider completes a single system+user prompt pair.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Enricher adapts a Provider to coach.Enricher with a timeout and an optional
// rate budget.
type Enricher struct {
	provider Provider
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *zap.Logger
}

// NewEnricher wraps p. ratePerMinute <= 0 disables rate limiting.
func NewEnricher(p Provider, timeout time.Duration, ratePerMinute int, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Enricher{provider: p, timeout: timeout, logger: logger}
	if ratePerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}
	return e
}

// New builds the enricher selected by cfg. Without a provider or API key it
// returns coach.NopEnricher.
func New(cfg config.EnrichmentConfig, logger *zap.Logger) (coach.Enricher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case config.ProviderNone:
		return coach.NopEnricher{}, nil
	case config.ProviderAnthropic, config.ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unknown enrichment provider %q", cfg.Provider)
	}
	key := cfg.APIKey()
	if key == "" {
		logger.Warn("enrichment provider configured without API key, disabling",
			zap.String("provider", cfg.Provider))
		return coach.NopEnricher{}, nil
	}

	var p Provider
	switch cfg.Provider {
	case config.ProviderAnthropic:
		p = NewAnthropic(key, cfg.ModelOrDefault(), cfg.MaxTokens)
	default:
		p = NewOpenAI(key, cfg.ModelOrDefault(), cfg.MaxTokens, cfg.OpenAIBaseURL)
	}

	logger.Info("enrichment enabled",
		zap.String("provider", p.Name()),
		zap.String("model", cfg.ModelOrDefault()),
		zap.Int("rate_per_minute", cfg.RatePerMinute),
	)
	return NewEnricher(p, cfg.Timeout(), cfg.RatePerMinute, logger), nil
}

// ImproveReply asks the provider for a more natural reply. A spent rate
// budget or an empty answer returns "" (no change).
func (e *Enricher) ImproveReply(ctx context.Context, in coach.EnrichmentInput) (string, error) {
	name := e.provider.Name()
	if e.limiter != nil && !e.limiter.Allow() {
		e.logger.Debug("enrichment skipped, rate budget exhausted", zap.String("provider", name))
		metrics.RecordEnrichment(name, metrics.OutcomeRateLimited, 0)
		return "", nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	user, err := BuildUserPrompt(in)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := e.provider.Complete(ctx, SystemPrompt, user)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordEnrichment(name, metrics.OutcomeError, elapsed)
		return "", fmt.Errorf("%s completion: %w", name, err)
	}

	improved := ParseReply(text)
	outcome := metrics.OutcomeReplaced
	if improved == "" {
		outcome = metrics.OutcomeUnchanged
	}
	metrics.RecordEnrichment(name, outcome, elapsed)
	e.logger.Debug("enrichment complete",
		zap.String("provider", name),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
	return improved, nil
}
