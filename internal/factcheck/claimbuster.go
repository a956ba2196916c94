package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

const claimBusterURL = "https://idir.uta.edu/claimbuster/api/v2/score/text/"

// ClaimBuster scores claim-worthiness through the paid ClaimBuster API.
// It never rates truth itself; a high score is surfaced as a specialized
// unrated opinion with a confidence attached, which downstream
// reconciliation uses to rank otherwise-tied verdicts.
type ClaimBuster struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	threshold float64
}

type claimBusterRequest struct {
	InputText string `json:"input_text"`
}

type claimBusterResponse struct {
	Results []struct {
		Text  string  `json:"text"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// NewClaimBuster builds the service.
func NewClaimBuster(apiKey string, timeout time.Duration) *ClaimBuster {
	return &ClaimBuster{
		client:    &http.Client{Timeout: timeout},
		baseURL:   claimBusterURL,
		apiKey:    apiKey,
		threshold: 0.5,
	}
}

func (c *ClaimBuster) Name() string { return "claimbuster" }

func (c *ClaimBuster) Specialized() bool { return true }

func (c *ClaimBuster) Search(ctx context.Context, claim model.Claim) ([]model.ServiceRating, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("claimbuster: no API key configured")
	}

	payload, err := json.Marshal(claimBusterRequest{InputText: claim.Text})
	if err != nil {
		return nil, fmt.Errorf("claimbuster: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("claimbuster: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claimbuster: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claimbuster: unexpected status %d", resp.StatusCode)
	}

	var decoded claimBusterResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("claimbuster: decode response: %w", err)
	}

	var ratings []model.ServiceRating
	for _, r := range decoded.Results {
		if r.Score < c.threshold {
			continue
		}
		ratings = append(ratings, model.ServiceRating{
			Rating:      model.RatingUnverified,
			Source:      "ClaimBuster",
			Specialized: true,
			Confidence:  r.Score,
			Explanation: fmt.Sprintf("claim-worthiness score %.2f", r.Score),
		})
	}
	return ratings, nil
}
