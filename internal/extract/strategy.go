// Package extract implements the per-URL extraction strategy chain: an
// ordered escalation from a plain HTTP fetch through browser rendering,
// bot-detection bypass, and archived snapshots, until clean article text is
// obtained or every strategy is exhausted.
package extract

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
	"github.com/rohannagpure45/operatorNewsCuration/internal/util"
)

// Strategy is one concrete way of retrieving content for a URL. Strategies
// return raw content without judging plausibility; the orchestrator applies
// the minimum-length heuristic and drives retries.
type Strategy interface {
	Name() model.StrategyName
	// MaxAttempts is the strategy's own retry budget for transient failures.
	MaxAttempts() int
	Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error)
}

// Pacer throttles outbound requests per domain. Satisfied by
// worker.Limiter; injected to keep this package free of scheduling policy.
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// AttemptError classifies a failed attempt. Transient failures are retried
// within the strategy; permanent failures escalate to the next strategy
// immediately without burning retry budget.
type AttemptError struct {
	Reason    string
	Permanent bool
	Err       error
}

func (e *AttemptError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Transient wraps err as a retryable attempt failure.
func Transient(reason string, err error) *AttemptError {
	return &AttemptError{Reason: reason, Err: err}
}

// Permanent wraps err as a non-retryable attempt failure.
func Permanent(reason string, err error) *AttemptError {
	return &AttemptError{Reason: reason, Permanent: true, Err: err}
}

// classify normalizes any error into an AttemptError. Context timeouts and
// unknown network errors count as transient.
func classify(err error) *AttemptError {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient("attempt timed out", err)
	}
	return Transient("request failed", err)
}

// statusError classifies an unexpected HTTP status. 429 and 5xx are
// transient; other 4xx are permanent.
func statusError(status int, rawURL string) *AttemptError {
	err := fmt.Errorf("unexpected status %d for %s", status, rawURL)
	if status == http.StatusTooManyRequests || status >= 500 {
		return Transient(fmt.Sprintf("status %d", status), err)
	}
	return Permanent(fmt.Sprintf("status %d", status), err)
}

// newHTTPClient builds the shared client shape used by every strategy.
func newHTTPClient(cfg model.HTTPConfig, timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = cfg.Timeout
	}
	transport := &http.Transport{
		Proxy: util.ProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("stopped after 5 redirects")
			}
			return nil
		},
	}
}

// parseReadable runs readability over fetched HTML and shapes the result
// into ExtractedContent for the given strategy.
func parseReadable(html, rawURL string, strategy model.StrategyName) (*model.ExtractedContent, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, Permanent("malformed URL", err)
	}

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return nil, Permanent("unreadable document", err)
	}

	body := strings.TrimSpace(article.TextContent)
	content := &model.ExtractedContent{
		URL:         rawURL,
		Title:       strings.TrimSpace(article.Title),
		Author:      strings.TrimSpace(article.Byline),
		SiteName:    article.SiteName,
		Body:        body,
		WordCount:   len(strings.Fields(body)),
		Strategy:    strategy,
		ExtractedAt: time.Now().UTC(),
	}
	if article.PublishedTime != nil {
		t := article.PublishedTime.UTC()
		content.PublishedDate = &t
	}
	if content.SiteName == "" {
		content.SiteName = strings.TrimPrefix(pageURL.Hostname(), "www.")
	}
	return content, nil
}
