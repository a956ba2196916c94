package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// CloudUnblock calls the Browserless /unblock API, a managed remote browser
// specialized in bypassing active bot detection (Datadome, passive
// CAPTCHAs). Last of the live-fetch strategies before archives.
type CloudUnblock struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	residential bool
	maxAttempts int
}

type unblockRequest struct {
	URL     string `json:"url"`
	Content bool   `json:"content"`
}

type unblockResponse struct {
	Content string `json:"content"`
}

// NewCloudUnblock builds the strategy from extraction config.
func NewCloudUnblock(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig) *CloudUnblock {
	return &CloudUnblock{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		baseURL:     strings.TrimRight(extCfg.BrowserlessBaseURL, "/"),
		apiKey:      extCfg.BrowserlessAPIKey,
		residential: extCfg.UseResidentialProxy,
		maxAttempts: extCfg.UnblockRetries,
	}
}

func (u *CloudUnblock) Name() model.StrategyName { return model.StrategyCloudUnblock }

func (u *CloudUnblock) MaxAttempts() int { return u.maxAttempts }

func (u *CloudUnblock) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	if u.apiKey == "" {
		return nil, Permanent("unblock service not configured", nil)
	}

	endpoint := fmt.Sprintf("%s/unblock?token=%s", u.baseURL, u.apiKey)
	if u.residential {
		endpoint += "&proxy=residential"
	}

	payload, err := json.Marshal(unblockRequest{URL: rawURL, Content: true})
	if err != nil {
		return nil, Permanent("encode unblock request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, Permanent("build unblock request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, u.redact(classify(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, rawURL)
	}

	var decoded unblockResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, Transient("decode unblock response", err)
	}
	if strings.TrimSpace(decoded.Content) == "" {
		return nil, Permanent("unblock service returned empty content", nil)
	}

	return parseReadable(decoded.Content, rawURL, model.StrategyCloudUnblock)
}

func (u *CloudUnblock) redact(ae *AttemptError) *AttemptError {
	if u.apiKey == "" || ae.Err == nil {
		return ae
	}
	msg := strings.ReplaceAll(ae.Err.Error(), u.apiKey, "[REDACTED]")
	ae.Err = fmt.Errorf("%s", msg)
	return ae
}
