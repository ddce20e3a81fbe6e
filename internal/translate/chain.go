package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mediaforge/internal/logging"
	"mediaforge/internal/services"
)

// Attempt records one provider try for diagnostics.
type Attempt struct {
	Provider string
	Err      error
	Elapsed  time.Duration
}

// Record is a successful translation with its provenance.
type Record struct {
	// Text is the translated output.
	Text string
	// Provider names the backend that produced it.
	Provider string
	// SourceLanguage echoes the request hint; may be empty when the
	// provider auto-detected.
	SourceLanguage string
	// TargetLanguage always equals the caller-requested target.
	TargetLanguage string
	// Attempts lists every provider tried, including the successful one.
	Attempts []Attempt
}

// Chain tries an ordered list of providers until one succeeds.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a fallback chain over the given providers. Order is
// significant: earlier providers are preferred.
func NewChain(providers []Provider, logger *slog.Logger) *Chain {
	return &Chain{
		providers: providers,
		logger:    logging.NewComponentLogger(logger, "translate"),
	}
}

// Providers returns the configured provider names in fallback order, with
// availability at call time.
func (c *Chain) Providers() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(c.providers))
	for _, p := range c.providers {
		statuses = append(statuses, ProviderStatus{Name: p.Name(), Available: p.Available()})
	}
	return statuses
}

// ProviderStatus reports one provider's position in the chain.
type ProviderStatus struct {
	Name      string
	Available bool
}

// Translate walks the chain in order. Unavailable providers are skipped
// without counting as failures; any provider error is recovered and the next
// provider is tried. The first success wins. When every provider has been
// skipped or has failed, the returned error carries the last failure.
func (c *Chain) Translate(ctx context.Context, req Request) (Record, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Record{}, services.Wrap(services.ErrValidation, "translate", "request", "empty text", nil)
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return Record{}, services.Wrap(services.ErrValidation, "translate", "request", "target language required", nil)
	}

	log := logging.WithContext(ctx, c.logger)
	var attempts []Attempt
	var lastErr error

	for _, provider := range c.providers {
		if !provider.Available() {
			log.Debug("skipping unavailable provider",
				logging.String(logging.FieldProvider, provider.Name()))
			continue
		}

		started := time.Now()
		text, err := provider.Translate(ctx, req)
		elapsed := time.Since(started)
		attempts = append(attempts, Attempt{Provider: provider.Name(), Err: err, Elapsed: elapsed})

		if err != nil {
			lastErr = err
			log.Warn("provider failed, trying next",
				logging.String(logging.FieldProvider, provider.Name()),
				logging.Duration("elapsed", elapsed),
				logging.Error(err))
			continue
		}

		log.Info("translation succeeded",
			logging.String(logging.FieldProvider, provider.Name()),
			logging.String(logging.FieldLanguage, req.TargetLanguage),
			logging.Duration("elapsed", elapsed))
		return Record{
			Text:           text,
			Provider:       provider.Name(),
			SourceLanguage: req.SourceLanguage,
			TargetLanguage: req.TargetLanguage,
			Attempts:       attempts,
		}, nil
	}

	if lastErr != nil {
		return Record{}, services.Wrap(services.ErrProviderUnavailable, "translate", "chain",
			"all providers failed", lastErr)
	}
	return Record{}, services.Wrap(services.ErrProviderUnavailable, "translate", "chain",
		"no providers configured", nil)
}
