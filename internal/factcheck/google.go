package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

const googleFactCheckURL = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

type ratingEntry struct {
	text    string
	rating  model.ClaimRating
	pattern *regexp.Regexp
}

// ratingVocabulary translates publisher rating scales (PolitiFact, Snopes,
// FactCheck.org et al.) into the internal one. Order matters: compound
// entries like "mostly false" must win their partial match before "false".
var ratingVocabulary = buildVocabulary([]struct {
	text   string
	rating model.ClaimRating
}{
	{"mostly true", model.RatingMostlyTrue},
	{"mostly false", model.RatingMostlyFalse},
	{"half true", model.RatingMixed},
	{"pants on fire", model.RatingFalse},
	{"true", model.RatingTrue},
	{"mixed", model.RatingMixed},
	{"false", model.RatingFalse},
	{"incorrect", model.RatingFalse},
	{"misleading", model.RatingMostlyFalse},
	{"unproven", model.RatingUnverified},
	{"outdated", model.RatingMixed},
})

func buildVocabulary(entries []struct {
	text   string
	rating model.ClaimRating
}) []ratingEntry {
	out := make([]ratingEntry, len(entries))
	for i, e := range entries {
		out[i] = ratingEntry{
			text:    e.text,
			rating:  e.rating,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(e.text) + `\b`),
		}
	}
	return out
}

// GoogleFactCheck queries the Google Fact Check Tools claim search, a free
// aggregator over PolitiFact, Snopes, FactCheck.org, AFP, Reuters and
// others.
type GoogleFactCheck struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type googleClaimsResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			TextualRating string `json:"textualRating"`
			ReviewDate    string `json:"reviewDate"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// NewGoogleFactCheck builds the service. The timeout bounds each search.
func NewGoogleFactCheck(apiKey string, timeout time.Duration) *GoogleFactCheck {
	return &GoogleFactCheck{
		client:  &http.Client{Timeout: timeout},
		baseURL: googleFactCheckURL,
		apiKey:  apiKey,
	}
}

func (g *GoogleFactCheck) Name() string { return "google_fact_check" }

func (g *GoogleFactCheck) Specialized() bool { return false }

func (g *GoogleFactCheck) Search(ctx context.Context, claim model.Claim) ([]model.ServiceRating, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google fact check: no API key configured")
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("query", claim.Text)
	params.Set("languageCode", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google fact check: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google fact check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google fact check: unexpected status %d", resp.StatusCode)
	}

	var decoded googleClaimsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("google fact check: decode response: %w", err)
	}

	var ratings []model.ServiceRating
	for _, c := range decoded.Claims {
		if len(c.ClaimReview) == 0 {
			continue
		}
		// First review is the most relevant per the API's ordering.
		review := c.ClaimReview[0]
		source := review.Publisher.Name
		if source == "" {
			source = "Unknown"
		}
		rating := model.ServiceRating{
			Rating:      MapRating(review.TextualRating),
			Source:      source,
			EvidenceURL: review.URL,
			Explanation: review.TextualRating,
		}
		if review.ReviewDate != "" {
			if t, err := time.Parse(time.RFC3339, review.ReviewDate); err == nil {
				u := t.UTC()
				rating.ReviewedAt = &u
			}
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

// MapRating normalizes a publisher's textual rating. Exact matches win;
// otherwise the first vocabulary entry found on a word boundary applies.
// Unrecognized text maps to unverified.
func MapRating(textual string) model.ClaimRating {
	lower := strings.ToLower(strings.TrimSpace(textual))
	for _, e := range ratingVocabulary {
		if e.text == lower {
			return e.rating
		}
	}
	for _, e := range ratingVocabulary {
		if e.pattern.MatchString(lower) {
			return e.rating
		}
	}
	return model.RatingUnverified
}
