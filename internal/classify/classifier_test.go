package classify

import (
	"testing"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

func TestClassify_OrderedRules(t *testing.T) {
	cases := []struct {
		url  string
		want model.SourceType
	}{
		{"https://twitter.com/someone/status/1234567890", model.SourceSocialPost},
		{"https://x.com/someone/status/987654321", model.SourceSocialPost},
		{"https://mobile.twitter.com/someone/status/555", model.SourceSocialPost},
		{"https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany", model.SourceRegulatoryFiling},
		{"https://13f.info/manager/0001067983-berkshire-hathaway", model.SourceRegulatoryFiling},
		{"https://www.reuters.com/markets/some-story", model.SourceArticle},
		{"https://example-blog.substack.com/p/post", model.SourceArticle},
		{"https://totally-unknown-domain.dev/page", model.SourceArticle},
	}

	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	urls := []string{
		"https://x.com/a/status/1",
		"https://sec.gov/filing",
		"https://news.example.com/story",
	}
	for _, u := range urls {
		first := Classify(u)
		for i := 0; i < 10; i++ {
			if got := Classify(u); got != first {
				t.Fatalf("Classify(%q) not deterministic: %q then %q", u, first, got)
			}
		}
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{"https://example.com/a", "http://example.com"}
	invalid := []string{"ftp://example.com", "not a url", "https://", "//missing-scheme.com"}

	for _, u := range valid {
		if !IsValidURL(u) {
			t.Errorf("IsValidURL(%q) = false, want true", u)
		}
	}
	for _, u := range invalid {
		if IsValidURL(u) {
			t.Errorf("IsValidURL(%q) = true, want false", u)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"example.com/story", "https://example.com/story"},
		{"https://example.com/story/", "https://example.com/story"},
		{"https://example.com/story?id=3", "https://example.com/story?id=3"},
		{"https://example.com/", "https://example.com/"},
	}
	for _, tc := range cases {
		if got := NormalizeURL(tc.in); got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTweetID(t *testing.T) {
	if got := TweetID("https://x.com/a/status/12345"); got != "12345" {
		t.Errorf("TweetID = %q, want 12345", got)
	}
	if got := TweetID("https://x.com/a"); got != "" {
		t.Errorf("TweetID on non-status URL = %q, want empty", got)
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://www.Bloomberg.com/news/x"); got != "bloomberg.com" {
		t.Errorf("Host = %q, want bloomberg.com", got)
	}
}
