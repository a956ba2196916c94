package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a URL may be fetched politely. Parsed
// robots.txt data is cached per host; an unreachable robots.txt allows the
// fetch (the extraction chain has its own failure handling).
type RobotsGate struct {
	httpClient *http.Client
	userAgent  string

	mu    sync.RWMutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsGate creates a gate for the given crawler identity.
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		hosts:      make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the URL may be fetched and any crawl delay the
// site requests for our agent.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0
	}

	data, err := g.data(ctx, parsed)
	if err != nil {
		return true, 0
	}

	allowed := data.TestAgent(parsed.Path, g.userAgent)
	var delay time.Duration
	if group := data.FindGroup(g.userAgent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay
}

func (g *RobotsGate) data(ctx context.Context, parsed *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.hosts[parsed.Host]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		data, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	} else {
		data, err = robotstxt.FromResponse(resp)
		if err != nil {
			return nil, err
		}
	}

	g.mu.Lock()
	g.hosts[parsed.Host] = data
	g.mu.Unlock()
	return data, nil
}

// Reset drops all cached robots.txt data.
func (g *RobotsGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hosts = make(map[string]*robotstxt.RobotsData)
}
