package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/breaker"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
	"github.com/rohannagpure45/operatorNewsCuration/internal/sites"
)

// ErrExhausted means every strategy in the chain failed or was skipped.
var ErrExhausted = errors.New("all extraction strategies exhausted")

// Orchestrator drives the strategy chain for one URL: ordered escalation,
// per-strategy retries with backoff, a global attempt/wall-clock budget, and
// circuit breaking over the shared fallback services.
type Orchestrator struct {
	cfg     model.ExtractionConfig
	breaker *breaker.Breaker
	sleep   func(time.Duration) // injectable for tests

	direct  Strategy
	feed    Strategy
	browser Strategy
	unblock Strategy
	archive Strategy
	social  Strategy
	filing  Strategy

	// lookupFeed gates FeedRecover into article chains only when a recovery
	// feed is known for the site.
	lookupFeed func(string) string
}

// NewOrchestrator wires the full strategy chain from config. The pacer is
// shared with the batch layer so direct fetches respect per-domain rates.
func NewOrchestrator(cfg *model.Config, pacer Pacer) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg.Extraction,
		breaker:    breaker.New(cfg.Extraction.BreakerThreshold, cfg.Extraction.BreakerReset),
		sleep:      time.Sleep,
		direct:     NewDirectFetch(cfg.HTTP, cfg.Extraction, pacer),
		feed:       NewFeedRecover(cfg.HTTP.UserAgent),
		browser:    NewStealthBrowserRender(cfg.HTTP, cfg.Extraction),
		unblock:    NewCloudUnblock(cfg.HTTP, cfg.Extraction),
		archive:    NewArchiveSnapshot(cfg.HTTP, cfg.Extraction),
		social:     NewSyndicationFetch(cfg.HTTP, cfg.Extraction),
		filing:     NewStructuredHTMLParse(cfg.HTTP, cfg.Extraction),
		lookupFeed: sites.FeedFor,
	}
}

// chainFor returns the ordered strategies for a URL of the given type.
// Social posts and regulatory filings each have a single dedicated strategy;
// everything else walks the article escalation ladder.
func (o *Orchestrator) chainFor(rawURL string, st model.SourceType) []Strategy {
	switch st {
	case model.SourceSocialPost:
		return []Strategy{o.social}
	case model.SourceRegulatoryFiling:
		return []Strategy{o.filing}
	}

	chain := []Strategy{o.direct}
	if o.lookupFeed(rawURL) != "" {
		chain = append(chain, o.feed)
	}
	chain = append(chain, o.browser)
	if o.cfg.UseUnblock {
		chain = append(chain, o.unblock)
	}
	chain = append(chain, o.archive)
	return chain
}

// breakerService maps shared fallback services to breaker names. Strategies
// that talk to the target site directly are not breaker-gated; a broken
// site is that URL's problem, not the batch's.
func breakerService(name model.StrategyName) string {
	switch name {
	case model.StrategyStealthBrowser:
		return "browser_render"
	case model.StrategyCloudUnblock:
		return "cloud_unblock"
	case model.StrategyArchiveSnapshot:
		return "archive"
	}
	return ""
}

// minWordsFor returns the plausibility floor for the source type. Social
// posts are legitimately short.
func (o *Orchestrator) minWordsFor(st model.SourceType) int {
	if st == model.SourceSocialPost {
		return o.cfg.MinWordsSocial
	}
	return o.cfg.MinWords
}

// Run walks the chain until one strategy yields plausible content or the
// chain is exhausted. Every attempt, including skips, lands in the returned
// log regardless of outcome.
func (o *Orchestrator) Run(ctx context.Context, rawURL string, st model.SourceType) (*model.ExtractedContent, []model.ExtractionAttempt, error) {
	chain := o.chainFor(rawURL, st)
	minWords := o.minWordsFor(st)
	deadline := time.Now().Add(o.cfg.MaxElapsed)

	var attempts []model.ExtractionAttempt
	total := 0
	var lastReason string

	for i, strat := range chain {
		service := breakerService(strat.Name())
		if service != "" && !o.breaker.Allow(service) {
			attempts = append(attempts, skipped(strat.Name(), "circuit open"))
			lastReason = "circuit open"
			continue
		}

		content, stratAttempts, reason, ok := o.runStrategy(ctx, strat, rawURL, minWords, &total, deadline)
		attempts = append(attempts, stratAttempts...)
		if reason != "" {
			lastReason = reason
		}

		if service != "" {
			if ok {
				o.breaker.RecordSuccess(service)
			} else if reason != "budget exhausted" {
				o.breaker.RecordFailure(service)
			}
		}

		if ok {
			return content, attempts, nil
		}

		if total >= o.cfg.MaxAttempts || time.Now().After(deadline) {
			for _, rest := range chain[i+1:] {
				attempts = append(attempts, skipped(rest.Name(), "budget exhausted"))
			}
			break
		}

		if err := ctx.Err(); err != nil {
			for _, rest := range chain[i+1:] {
				attempts = append(attempts, skipped(rest.Name(), "canceled"))
			}
			break
		}
	}

	return nil, attempts, fmt.Errorf("%w: %s", ErrExhausted, sites.FailureMessage(rawURL, lastReason))
}

// runStrategy retries a single strategy against its own budget, the global
// attempt count, and the wall-clock deadline.
func (o *Orchestrator) runStrategy(ctx context.Context, strat Strategy, rawURL string, minWords int, total *int, deadline time.Time) (*model.ExtractedContent, []model.ExtractionAttempt, string, bool) {
	var attempts []model.ExtractionAttempt
	var lastReason string

	maxAttempts := strat.MaxAttempts()
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for try := 1; try <= maxAttempts; try++ {
		if *total >= o.cfg.MaxAttempts || time.Now().After(deadline) {
			return nil, attempts, "budget exhausted", false
		}
		*total++

		started := time.Now().UTC()
		content, err := strat.Fetch(ctx, rawURL)

		if err == nil && content.WordCount < minWords {
			err = Permanent(fmt.Sprintf("content too thin (%d words)", content.WordCount), nil)
		}

		if err == nil {
			attempts = append(attempts, model.ExtractionAttempt{
				Strategy:    strat.Name(),
				Attempt:     try,
				StartedAt:   started,
				CompletedAt: time.Now().UTC(),
				Outcome:     model.AttemptSucceeded,
			})
			return content, attempts, "", true
		}

		ae := classify(err)
		attempts = append(attempts, model.ExtractionAttempt{
			Strategy:    strat.Name(),
			Attempt:     try,
			StartedAt:   started,
			CompletedAt: time.Now().UTC(),
			Outcome:     model.AttemptFailed,
			Reason:      ae.Reason,
			Transient:   !ae.Permanent,
		})
		lastReason = ae.Reason

		if ae.Permanent {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if try < maxAttempts {
			o.sleep(o.cfg.BackoffBase * time.Duration(1<<(try-1)))
		}
	}

	return nil, attempts, lastReason, false
}

func skipped(name model.StrategyName, reason string) model.ExtractionAttempt {
	now := time.Now().UTC()
	return model.ExtractionAttempt{
		Strategy:    name,
		Attempt:     0,
		StartedAt:   now,
		CompletedAt: now,
		Outcome:     model.AttemptSkipped,
		Reason:      reason,
	}
}
