package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

func TestSelectClaims(t *testing.T) {
	body := "The sky was blue today. " +
		"According to researchers, emissions fell by 12 percent last year. " +
		"The company announced a new chief executive on Monday. " +
		"Nice weather we are having lately around here though. " +
		"Revenue grew to 3 billion dollars in the second quarter."

	claims := SelectClaims(body, 5)
	if len(claims) != 3 {
		t.Fatalf("got %d claims, want 3: %+v", len(claims), claims)
	}
	if claims[0].Indicator != "attribution" {
		t.Errorf("claims[0].Indicator = %q", claims[0].Indicator)
	}
	if !strings.Contains(claims[1].Text, "announced a new chief executive") {
		t.Errorf("claims[1] = %q", claims[1].Text)
	}
	if claims[2].Indicator != "quantity" {
		t.Errorf("claims[2].Indicator = %q", claims[2].Indicator)
	}
}

func TestSelectClaimsSpansSliceBody(t *testing.T) {
	body := "Hello there... " +
		"According to researchers, emissions fell by 12 percent last year. " +
		"Was it enough?! The café's owner said sales dropped 40 percent. Done."

	claims := SelectClaims(body, 5)
	if len(claims) != 2 {
		t.Fatalf("got %d claims, want 2: %+v", len(claims), claims)
	}
	for _, c := range claims {
		if got := body[c.Start:c.End]; got != c.Text {
			t.Errorf("body[%d:%d] = %q, want %q", c.Start, c.End, got, c.Text)
		}
	}
}

func TestSelectClaimsDeterministic(t *testing.T) {
	body := strings.Repeat("Researchers said output rose 40 percent. ", 10)
	first := SelectClaims(body, 5)
	for i := 0; i < 5; i++ {
		if got := SelectClaims(body, 5); len(got) != len(first) {
			t.Fatalf("run %d: %d claims, want %d", i, len(got), len(first))
		}
	}
	if len(first) != 5 {
		t.Errorf("cap not applied: got %d claims", len(first))
	}
}

func TestSelectClaimsLengthBounds(t *testing.T) {
	short := "It rose fast."
	long := "The committee announced " + strings.Repeat("very ", 70) + "long findings."
	claims := SelectClaims(short+" "+long, 5)
	if len(claims) != 0 {
		t.Errorf("bounds not enforced: %+v", claims)
	}
}

func TestMapRating(t *testing.T) {
	cases := map[string]model.ClaimRating{
		"True":                       model.RatingTrue,
		"mostly false":               model.RatingMostlyFalse,
		"Pants on Fire":              model.RatingFalse,
		"This claim is mostly false": model.RatingMostlyFalse,
		"Four Pinocchios":            model.RatingUnverified,
		"half true":                  model.RatingMixed,
		"misleading":                 model.RatingMostlyFalse,
	}
	for in, want := range cases {
		if got := MapRating(in); got != want {
			t.Errorf("MapRating(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestReconcilePrecedence(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)
	claim := model.Claim{Text: "emissions fell 12 percent"}

	t.Run("rated beats unrated", func(t *testing.T) {
		v := Reconcile(claim, []model.ServiceRating{
			{Rating: model.RatingUnverified, Source: "ClaimBuster", Specialized: true},
			{Rating: model.RatingMostlyTrue, Source: "PolitiFact"},
		})
		if v.Rating != model.RatingMostlyTrue || v.Source != "PolitiFact" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("specialized beats aggregator among rated", func(t *testing.T) {
		v := Reconcile(claim, []model.ServiceRating{
			{Rating: model.RatingMixed, Source: "Aggregated"},
			{Rating: model.RatingTrue, Source: "Specialist", Specialized: true},
		})
		if v.Rating != model.RatingTrue || v.Source != "Specialist" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("newer review wins ties", func(t *testing.T) {
		v := Reconcile(claim, []model.ServiceRating{
			{Rating: model.RatingFalse, Source: "Older", ReviewedAt: &earlier},
			{Rating: model.RatingMixed, Source: "Newer", ReviewedAt: &now},
		})
		if v.Source != "Newer" {
			t.Errorf("verdict = %+v", v)
		}
	})

	t.Run("no opinions yields unverified", func(t *testing.T) {
		v := Reconcile(claim, nil)
		if v.Rating != model.RatingUnverified || v.Opinions != 0 {
			t.Errorf("verdict = %+v", v)
		}
	})
}

func TestReconcilePure(t *testing.T) {
	claim := model.Claim{Text: "x grew 10 percent"}
	ops := []model.ServiceRating{
		{Rating: model.RatingTrue, Source: "A"},
		{Rating: model.RatingFalse, Source: "B", Specialized: true},
	}
	first := Reconcile(claim, ops)
	for i := 0; i < 10; i++ {
		if got := Reconcile(claim, ops); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestCredibilityRater(t *testing.T) {
	r := NewCredibilityRater(model.CredibilityConfig{
		HighTrustDomains: []string{"reuters.com"},
		LowTrustDomains:  []string{"totallyrealnews.example"},
		DefaultScore:     0.5,
	})

	score, src := r.Score("https://www.reuters.com/business/story")
	if score != 0.9 || src != "reuters.com" {
		t.Errorf("high trust: score=%v src=%q", score, src)
	}
	score, _ = r.Score("https://totallyrealnews.example/shock")
	if score != 0.2 {
		t.Errorf("low trust: score=%v", score)
	}
	score, _ = r.Score("https://unknown-blog.net/post")
	if score != 0.5 {
		t.Errorf("neutral default: score=%v", score)
	}
	// Subdomains inherit the parent tier.
	score, _ = r.Score("https://graphics.reuters.com/chart")
	if score != 0.9 {
		t.Errorf("subdomain: score=%v", score)
	}
}

// fakeService scripts per-claim answers for aggregator tests.
type fakeService struct {
	name        string
	specialized bool
	ratings     map[string][]model.ServiceRating
	err         error
	delay       time.Duration
}

func (f *fakeService) Name() string      { return f.name }
func (f *fakeService) Specialized() bool { return f.specialized }

func (f *fakeService) Search(ctx context.Context, claim model.Claim) ([]model.ServiceRating, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings[claim.Text], nil
}

func factCheckConfig() model.FactCheckConfig {
	return model.FactCheckConfig{
		Enabled:        true,
		MaxClaims:      5,
		ServiceTimeout: time.Second,
		Credibility:    model.CredibilityConfig{DefaultScore: 0.5},
	}
}

const claimBody = "According to analysts, the market grew 8 percent this year."

func TestVerifySpecializedOutranksAggregator(t *testing.T) {
	claimText := "According to analysts, the market grew 8 percent this year"
	agg := NewAggregatorWithServices(factCheckConfig(),
		&fakeService{
			name: "google_fact_check",
			ratings: map[string][]model.ServiceRating{
				claimText: {{Rating: model.RatingUnverified, Source: "Aggregated"}},
			},
		},
		&fakeService{
			name:        "specialist",
			specialized: true,
			ratings: map[string][]model.ServiceRating{
				claimText: {{Rating: model.RatingTrue, Source: "Specialist", Specialized: true}},
			},
		},
	)

	result := agg.Verify(context.Background(), &model.ExtractedContent{
		URL:  "https://example.com/a",
		Body: claimBody,
	})
	if len(result.Verdicts) != 1 {
		t.Fatalf("verdicts = %+v", result.Verdicts)
	}
	if result.Verdicts[0].Rating != model.RatingTrue || result.Verdicts[0].Source != "Specialist" {
		t.Errorf("verdict = %+v, want specialized rating to win", result.Verdicts[0])
	}
	if result.Verdicts[0].Opinions != 2 {
		t.Errorf("Opinions = %d, want 2", result.Verdicts[0].Opinions)
	}
}

func TestVerifyOutageDegrades(t *testing.T) {
	agg := NewAggregatorWithServices(factCheckConfig(),
		&fakeService{name: "down", err: errors.New("connection refused")},
	)

	result := agg.Verify(context.Background(), &model.ExtractedContent{
		URL:  "https://example.com/a",
		Body: claimBody,
	})
	if result.ServicesQueried != 1 || result.ServicesFailed != 1 {
		t.Errorf("queried=%d failed=%d", result.ServicesQueried, result.ServicesFailed)
	}
	if result.Confidence != "low" {
		t.Errorf("Confidence = %q, want low", result.Confidence)
	}
	if len(result.Verdicts) != 1 || result.Verdicts[0].Rating != model.RatingUnverified {
		t.Errorf("verdicts = %+v, want unverified verdict despite outage", result.Verdicts)
	}
}

func TestVerifyServiceTimeout(t *testing.T) {
	cfg := factCheckConfig()
	cfg.ServiceTimeout = 20 * time.Millisecond
	agg := NewAggregatorWithServices(cfg,
		&fakeService{name: "slow", delay: time.Second},
	)

	start := time.Now()
	result := agg.Verify(context.Background(), &model.ExtractedContent{
		URL:  "https://example.com/a",
		Body: claimBody,
	})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Verify took %v, per-service timeout not applied", elapsed)
	}
	if result.ServicesFailed != 1 {
		t.Errorf("ServicesFailed = %d, want 1", result.ServicesFailed)
	}
}

func TestVerifyNoServices(t *testing.T) {
	agg := NewAggregatorWithServices(factCheckConfig())
	result := agg.Verify(context.Background(), &model.ExtractedContent{
		URL:  "https://example.com/a",
		Body: claimBody,
	})
	if result.ClaimsAnalyzed != 1 || len(result.Verdicts) != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Credibility != 0.5 {
		t.Errorf("Credibility = %v, want neutral default", result.Credibility)
	}
}

func TestGoogleFactCheckSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if r.URL.Query().Get("languageCode") != "en" {
			t.Errorf("languageCode = %q", r.URL.Query().Get("languageCode"))
		}
		fmt.Fprint(w, `{
			"claims": [{
				"text": "the market grew 8 percent",
				"claimReview": [{
					"publisher": {"name": "PolitiFact", "site": "politifact.com"},
					"url": "https://politifact.com/check/1",
					"textualRating": "Mostly True",
					"reviewDate": "2026-05-01T00:00:00Z"
				}]
			}]
		}`)
	}))
	defer srv.Close()

	g := NewGoogleFactCheck("test-key", time.Second)
	g.baseURL = srv.URL

	ratings, err := g.Search(context.Background(), model.Claim{Text: "the market grew 8 percent"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("ratings = %+v", ratings)
	}
	if ratings[0].Rating != model.RatingMostlyTrue || ratings[0].Source != "PolitiFact" {
		t.Errorf("rating = %+v", ratings[0])
	}
	if ratings[0].ReviewedAt == nil || ratings[0].ReviewedAt.Month() != time.May {
		t.Errorf("ReviewedAt = %v", ratings[0].ReviewedAt)
	}
}

func TestClaimBusterSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "cb-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		var req claimBusterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprint(w, `{"results": [{"text": "claim", "score": 0.83}, {"text": "filler", "score": 0.2}]}`)
	}))
	defer srv.Close()

	c := NewClaimBuster("cb-key", time.Second)
	c.baseURL = srv.URL

	ratings, err := c.Search(context.Background(), model.Claim{Text: "claim"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("ratings = %+v, want sub-threshold results dropped", ratings)
	}
	if ratings[0].Confidence != 0.83 || !ratings[0].Specialized {
		t.Errorf("rating = %+v", ratings[0])
	}
}
