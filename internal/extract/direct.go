package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
	"github.com/rohannagpure45/operatorNewsCuration/internal/util"
)

// DirectFetch is the cheapest strategy: a polite HTTP GET followed by
// readability extraction. It honors robots.txt and the per-domain pacer so
// batch runs stay well-behaved crawlers.
type DirectFetch struct {
	client      *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	robots      *util.RobotsGate // nil disables the robots gate
	pacer       Pacer            // nil disables pacing
	sleep       func(time.Duration)
}

// NewDirectFetch builds the strategy from shared HTTP config.
func NewDirectFetch(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig, pacer Pacer) *DirectFetch {
	d := &DirectFetch{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		userAgent:   httpCfg.UserAgent,
		maxBytes:    httpCfg.MaxBodyBytes,
		maxAttempts: extCfg.DirectRetries,
		pacer:       pacer,
		sleep:       time.Sleep,
	}
	if extCfg.RespectRobots {
		d.robots = util.NewRobotsGate(httpCfg.UserAgent, httpCfg.Timeout)
	}
	return d
}

func (d *DirectFetch) Name() model.StrategyName { return model.StrategyDirectFetch }

func (d *DirectFetch) MaxAttempts() int { return d.maxAttempts }

func (d *DirectFetch) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	if d.robots != nil {
		allowed, delay := d.robots.Allowed(ctx, rawURL)
		if !allowed {
			// Escalation is legitimate here: the later strategies read the
			// page through third-party services, not by crawling the site.
			return nil, Permanent("disallowed by robots.txt", nil)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, classify(ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	if d.pacer != nil {
		if err := d.pacer.Wait(ctx, rawURL); err != nil {
			return nil, classify(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Permanent("malformed URL", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, Transient("read body", fmt.Errorf("read body: %w", err))
	}

	finalURL := resp.Request.URL.String()
	content, err := parseReadable(string(body), finalURL, model.StrategyDirectFetch)
	if err != nil {
		return nil, err
	}
	content.URL = rawURL
	return content, nil
}
