package factcheck

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Aggregator runs the full verification pass for one article: claim
// selection, concurrent service fan-out, reconciliation, and publisher
// credibility.
type Aggregator struct {
	services       []Service
	rater          *CredibilityRater
	maxClaims      int
	serviceTimeout time.Duration
	verbose        bool
}

// NewAggregator wires the configured services. The free aggregator is always
// present when a key is configured; specialized services join when theirs
// are.
func NewAggregator(cfg model.FactCheckConfig, verbose bool) *Aggregator {
	a := &Aggregator{
		rater:          NewCredibilityRater(cfg.Credibility),
		maxClaims:      cfg.MaxClaims,
		serviceTimeout: cfg.ServiceTimeout,
		verbose:        verbose,
	}
	if cfg.GoogleAPIKey != "" {
		a.services = append(a.services, NewGoogleFactCheck(cfg.GoogleAPIKey, cfg.ServiceTimeout))
	}
	if cfg.ClaimBusterKey != "" {
		a.services = append(a.services, NewClaimBuster(cfg.ClaimBusterKey, cfg.ServiceTimeout))
	}
	return a
}

// NewAggregatorWithServices is the test seam.
func NewAggregatorWithServices(cfg model.FactCheckConfig, services ...Service) *Aggregator {
	return &Aggregator{
		services:       services,
		rater:          NewCredibilityRater(cfg.Credibility),
		maxClaims:      cfg.MaxClaims,
		serviceTimeout: cfg.ServiceTimeout,
	}
}

// Verify selects claims from the content and queries every service for each
// one concurrently. A service failing on any claim counts as one failed
// service; its other answers still participate. Verify never returns an
// error: with no services or no claims the result degrades to unverified.
func (a *Aggregator) Verify(ctx context.Context, content *model.ExtractedContent) *model.VerificationResult {
	result := &model.VerificationResult{
		ServicesQueried: len(a.services),
		CheckedAt:       time.Now().UTC(),
	}
	result.Credibility, result.CredibilitySource = a.rater.Score(content.URL)

	claims := SelectClaims(content.Body, a.maxClaims)
	result.ClaimsAnalyzed = len(claims)
	if len(claims) == 0 || len(a.services) == 0 {
		result.Confidence = "low"
		return result
	}

	// One slot per (claim, service) pair keeps the merged opinion order
	// deterministic regardless of goroutine scheduling.
	slots := make([][]model.ServiceRating, len(claims)*len(a.services))
	failed := make([]bool, len(a.services))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for ci := range claims {
		for si := range a.services {
			wg.Add(1)
			go func(ci, si int) {
				defer wg.Done()
				svcCtx, cancel := context.WithTimeout(ctx, a.serviceTimeout)
				defer cancel()

				ratings, err := a.services[si].Search(svcCtx, claims[ci])
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed[si] = true
					if a.verbose {
						fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", a.services[si].Name(), err)
					}
					return
				}
				slots[ci*len(a.services)+si] = ratings
			}(ci, si)
		}
	}
	wg.Wait()

	opinions := make([][]model.ServiceRating, len(claims))
	for ci := range claims {
		for si := range a.services {
			opinions[ci] = append(opinions[ci], slots[ci*len(a.services)+si]...)
		}
	}

	for _, f := range failed {
		if f {
			result.ServicesFailed++
		}
	}

	result.Verdicts = make([]model.ClaimVerdict, len(claims))
	rated := 0
	for i, claim := range claims {
		result.Verdicts[i] = Reconcile(claim, opinions[i])
		if result.Verdicts[i].Rating.Rated() {
			rated++
		}
	}

	result.Confidence = confidence(rated, len(claims), result.ServicesFailed)
	return result
}

// confidence grades how trustworthy the verification pass itself is.
func confidence(rated, total, servicesFailed int) string {
	switch {
	case total == 0:
		return "low"
	case servicesFailed == 0 && rated*2 >= total:
		return "high"
	case rated > 0:
		return "medium"
	default:
		return "low"
	}
}
