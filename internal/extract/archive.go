package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// ArchiveSnapshot is the last resort for articles: if the live page can't be
// read, a Wayback Machine snapshot often can. Snapshots may be stale, so
// this only runs after every live strategy has failed.
type ArchiveSnapshot struct {
	client      *http.Client
	baseURL     string
	userAgent   string
	maxBytes    int64
	maxAttempts int
}

type waybackAvailability struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Timestamp string `json:"timestamp"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// NewArchiveSnapshot builds the strategy from extraction config.
func NewArchiveSnapshot(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig) *ArchiveSnapshot {
	return &ArchiveSnapshot{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		baseURL:     strings.TrimRight(extCfg.ArchiveBaseURL, "/"),
		userAgent:   httpCfg.UserAgent,
		maxBytes:    httpCfg.MaxBodyBytes,
		maxAttempts: extCfg.ArchiveRetries,
	}
}

func (a *ArchiveSnapshot) Name() model.StrategyName { return model.StrategyArchiveSnapshot }

func (a *ArchiveSnapshot) MaxAttempts() int { return a.maxAttempts }

func (a *ArchiveSnapshot) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	snapshotURL, err := a.locate(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return nil, Permanent("build snapshot request", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, snapshotURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBytes))
	if err != nil {
		return nil, Transient("read snapshot", err)
	}

	// Keep the original URL on the content so downstream clustering groups
	// the article with its live siblings, not under web.archive.org.
	content, err := parseReadable(string(body), rawURL, model.StrategyArchiveSnapshot)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// locate asks the Wayback availability API for the closest snapshot.
func (a *ArchiveSnapshot) locate(ctx context.Context, rawURL string) (string, error) {
	endpoint := fmt.Sprintf("%s/wayback/available?url=%s", a.baseURL, url.QueryEscape(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", Permanent("build availability request", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp.StatusCode, endpoint)
	}

	var avail waybackAvailability
	if err := json.NewDecoder(resp.Body).Decode(&avail); err != nil {
		return "", Transient("decode availability response", err)
	}

	closest := avail.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return "", Permanent("no archived snapshot", nil)
	}

	// Upgrade scheme: the availability API still hands back http:// links.
	snapshotURL := closest.URL
	if strings.HasPrefix(snapshotURL, "http://") {
		snapshotURL = "https://" + strings.TrimPrefix(snapshotURL, "http://")
	}
	return snapshotURL, nil
}
