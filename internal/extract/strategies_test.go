package extract

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

func articleHTML(title, body string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><article><h1>%s</h1><p>%s</p></article></body></html>`,
		title, title, body)
}

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 2_000_000,
	}
}

func TestDirectFetchSuccess(t *testing.T) {
	body := strings.Repeat("Substantial article text here. ", 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		fmt.Fprint(w, articleHTML("Test Article", body))
	}))
	defer srv.Close()

	cfg := baseExtractionConfig()
	cfg.RespectRobots = false
	d := NewDirectFetch(testHTTPConfig(), cfg, nil)

	content, err := d.Fetch(context.Background(), srv.URL+"/story")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.Title != "Test Article" {
		t.Errorf("Title = %q", content.Title)
	}
	if content.WordCount < 100 {
		t.Errorf("WordCount = %d, want >= 100", content.WordCount)
	}
	if content.URL != srv.URL+"/story" {
		t.Errorf("URL = %q, want request URL preserved", content.URL)
	}
}

func TestDirectFetchStatusClassification(t *testing.T) {
	for _, tc := range []struct {
		status    int
		permanent bool
	}{
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusBadGateway, false},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		cfg := baseExtractionConfig()
		cfg.RespectRobots = false
		d := NewDirectFetch(testHTTPConfig(), cfg, nil)

		_, err := d.Fetch(context.Background(), srv.URL)
		srv.Close()
		var ae *AttemptError
		if !errors.As(err, &ae) {
			t.Fatalf("status %d: error %v is not an AttemptError", tc.status, err)
		}
		if ae.Permanent != tc.permanent {
			t.Errorf("status %d: permanent = %v, want %v", tc.status, ae.Permanent, tc.permanent)
		}
	}
}

func TestSyndicationFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "1234567890" {
			t.Errorf("id = %q", r.URL.Query().Get("id"))
		}
		if r.URL.Query().Get("token") != "1" {
			t.Errorf("token = %q, want leading digit", r.URL.Query().Get("token"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":       "Announcing our new model. It is quite good at many things indeed.",
			"created_at": "Wed Oct 10 20:19:24 +0000 2018",
			"user":       map[string]string{"name": "Example Labs", "screen_name": "examplelabs"},
			"favorite_count": 1200,
			"retweet_count":  300,
		})
	}))
	defer srv.Close()

	s := NewSyndicationFetch(testHTTPConfig(), baseExtractionConfig())
	s.baseURL = srv.URL

	content, err := s.Fetch(context.Background(), "https://x.com/examplelabs/status/1234567890")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.Author != "Example Labs (@examplelabs)" {
		t.Errorf("Author = %q", content.Author)
	}
	if !strings.Contains(content.Body, "Engagement: 1200 likes") {
		t.Errorf("Body missing engagement line: %q", content.Body)
	}
	if content.PublishedDate == nil || content.PublishedDate.Year() != 2018 {
		t.Errorf("PublishedDate = %v", content.PublishedDate)
	}
}

func TestSyndicationFetchDeletedPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSyndicationFetch(testHTTPConfig(), baseExtractionConfig())
	s.baseURL = srv.URL

	_, err := s.Fetch(context.Background(), "https://x.com/u/status/99")
	var ae *AttemptError
	if !errors.As(err, &ae) || !ae.Permanent {
		t.Fatalf("deleted post error = %v, want permanent", err)
	}
}

func TestSyndicationToken(t *testing.T) {
	for id, want := range map[string]string{
		"1234567890":          "1",
		"987":                 "9",
		"1719000000000000000": "1",
	} {
		if got := syndicationToken(id); got != want {
			t.Errorf("syndicationToken(%s) = %s, want %s", id, got, want)
		}
	}
}

func TestStructuredHTMLParse13F(t *testing.T) {
	page := `<html><head><title>fallback</title></head><body>
<h1>Example Capital Management - Q2 2026</h1>
<p>Total Value: $4,200,000,000</p>
<p>Number of Holdings: 2</p>
<table>
<tr><th>Security</th><th>Shares</th><th>Value</th></tr>
<tr><td>ACME CORP</td><td>1,000,000</td><td>$2,100,000,000</td></tr>
<tr><td>WIDGET INC</td><td>500,000</td><td>$2,100,000,000</td></tr>
</table></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	p := NewStructuredHTMLParse(testHTTPConfig(), baseExtractionConfig())
	content, err := p.Fetch(context.Background(), srv.URL+"/manager/example")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.Title != "Example Capital Management - Q2 2026" {
		t.Errorf("Title = %q", content.Title)
	}
	if !strings.Contains(content.Body, "Total Value: $4,200,000,000") {
		t.Errorf("Body missing summary metric:\n%s", content.Body)
	}
	if !strings.Contains(content.Body, "ACME CORP | 1,000,000 | $2,100,000,000") {
		t.Errorf("Body missing pipe-joined holdings row:\n%s", content.Body)
	}
}

func TestStructuredHTMLParseRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body><h1>Big Fund</h1><table>")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "<tr><td>SEC%d</td><td>%d</td></tr>", i, i)
	}
	b.WriteString("</table></body></html>")

	p := &StructuredHTMLParse{}
	content, err := p.parse("https://13f.info/manager/big", b.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(content.Body, "... and 10 more holdings") {
		t.Errorf("Body missing truncation note:\n%s", content.Body)
	}
	if strings.Contains(content.Body, "SEC55") {
		t.Error("rows past the cap leaked into the body")
	}
}

func TestArchiveSnapshotFetch(t *testing.T) {
	body := strings.Repeat("Archived article text content. ", 40)
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/wayback/available"):
			snap := srv.URL + "/web/20260101000000/https://example.com/story"
			_ = json.NewEncoder(w).Encode(map[string]any{
				"archived_snapshots": map[string]any{
					"closest": map[string]any{
						"available": true,
						"url":       snap,
						"timestamp": "20260101000000",
						"status":    "200",
					},
				},
			})
		default:
			fmt.Fprint(w, articleHTML("Archived Story", body))
		}
	}))
	defer srv.Close()

	cfg := baseExtractionConfig()
	cfg.ArchiveBaseURL = srv.URL
	a := NewArchiveSnapshot(testHTTPConfig(), cfg)

	content, err := a.Fetch(context.Background(), "https://example.com/story")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.URL != "https://example.com/story" {
		t.Errorf("URL = %q, want original preserved", content.URL)
	}
	if content.Strategy != model.StrategyArchiveSnapshot {
		t.Errorf("Strategy = %s", content.Strategy)
	}
}

func TestArchiveSnapshotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"archived_snapshots": map[string]any{}})
	}))
	defer srv.Close()

	cfg := baseExtractionConfig()
	cfg.ArchiveBaseURL = srv.URL
	a := NewArchiveSnapshot(testHTTPConfig(), cfg)

	_, err := a.Fetch(context.Background(), "https://example.com/story")
	var ae *AttemptError
	if !errors.As(err, &ae) || !ae.Permanent {
		t.Fatalf("missing snapshot error = %v, want permanent", err)
	}
}

func TestCloudUnblockFetch(t *testing.T) {
	body := strings.Repeat("Unblocked article text content. ", 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "secret-key" {
			t.Errorf("token = %q", r.URL.Query().Get("token"))
		}
		if r.URL.Query().Get("proxy") != "residential" {
			t.Errorf("proxy = %q, want residential", r.URL.Query().Get("proxy"))
		}
		var req unblockRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !req.Content {
			t.Error("request must ask for content")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"content": articleHTML("Unblocked Story", body),
		})
	}))
	defer srv.Close()

	cfg := baseExtractionConfig()
	cfg.BrowserlessBaseURL = srv.URL
	cfg.BrowserlessAPIKey = "secret-key"
	cfg.UseResidentialProxy = true
	u := NewCloudUnblock(testHTTPConfig(), cfg)

	content, err := u.Fetch(context.Background(), "https://example.com/blocked")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.Title != "Unblocked Story" {
		t.Errorf("Title = %q", content.Title)
	}
}

func TestCloudUnblockNotConfigured(t *testing.T) {
	u := NewCloudUnblock(testHTTPConfig(), baseExtractionConfig())
	_, err := u.Fetch(context.Background(), "https://example.com/x")
	var ae *AttemptError
	if !errors.As(err, &ae) || !ae.Permanent {
		t.Fatalf("unconfigured error = %v, want permanent", err)
	}
}

func TestStealthBrowserRender(t *testing.T) {
	body := strings.Repeat("Rendered article text content. ", 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("stealth") != "true" {
			t.Error("stealth flag missing")
		}
		fmt.Fprint(w, articleHTML("Rendered Story", body))
	}))
	defer srv.Close()

	cfg := baseExtractionConfig()
	cfg.BrowserlessBaseURL = srv.URL
	cfg.BrowserlessAPIKey = "key"
	s := NewStealthBrowserRender(testHTTPConfig(), cfg)

	content, err := s.Fetch(context.Background(), "https://example.com/js-page")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content.Title != "Rendered Story" {
		t.Errorf("Title = %q", content.Title)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML(`<p>Hello <b>world</b></p><script>var x = 1;</script><style>p{}</style>`)
	if got != "Hello world" {
		t.Errorf("stripHTML = %q", got)
	}
}
