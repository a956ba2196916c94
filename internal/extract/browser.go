package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// StealthBrowserRender drives a managed headless browser (Browserless
// /content API) with stealth flags. It defeats JavaScript-rendered pages
// and most passive bot checks, at real cost per render, so it runs only
// after the direct fetch fails.
type StealthBrowserRender struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	maxAttempts int
	maxBytes    int64
}

type renderRequest struct {
	URL            string `json:"url"`
	WaitForTimeout int    `json:"waitForTimeout,omitempty"`
}

// NewStealthBrowserRender builds the strategy from extraction config.
func NewStealthBrowserRender(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig) *StealthBrowserRender {
	return &StealthBrowserRender{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		baseURL:     strings.TrimRight(extCfg.BrowserlessBaseURL, "/"),
		apiKey:      extCfg.BrowserlessAPIKey,
		maxAttempts: extCfg.BrowserRetries,
		maxBytes:    httpCfg.MaxBodyBytes,
	}
}

func (s *StealthBrowserRender) Name() model.StrategyName { return model.StrategyStealthBrowser }

func (s *StealthBrowserRender) MaxAttempts() int { return s.maxAttempts }

func (s *StealthBrowserRender) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	if s.apiKey == "" {
		return nil, Permanent("browser render service not configured", nil)
	}

	payload, err := json.Marshal(renderRequest{URL: rawURL, WaitForTimeout: 3000})
	if err != nil {
		return nil, Permanent("encode render request", err)
	}

	endpoint := fmt.Sprintf("%s/content?token=%s&stealth=true", s.baseURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, Permanent("build render request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.redact(classify(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, rawURL)
	}

	htmlBody, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, Transient("read rendered page", err)
	}
	if len(bytes.TrimSpace(htmlBody)) == 0 {
		return nil, Permanent("render service returned empty page", nil)
	}

	return parseReadable(string(htmlBody), rawURL, model.StrategyStealthBrowser)
}

// redact scrubs the API token out of transport errors before they reach
// attempt logs.
func (s *StealthBrowserRender) redact(ae *AttemptError) *AttemptError {
	if s.apiKey == "" || ae.Err == nil {
		return ae
	}
	msg := strings.ReplaceAll(ae.Err.Error(), s.apiKey, "[REDACTED]")
	ae.Err = fmt.Errorf("%s", msg)
	return ae
}
