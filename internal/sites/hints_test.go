package sites

import (
	"strings"
	"testing"
)

func TestLookup_KnownSite(t *testing.T) {
	h := Lookup("https://www.bloomberg.com/news/articles/2025-06-01/some-story")
	if h == nil {
		t.Fatal("expected a hint for bloomberg.com")
	}
	if h.Name != "Bloomberg" {
		t.Errorf("Name = %q, want Bloomberg", h.Name)
	}
	if !h.HasPaywall || !h.TryArchive {
		t.Error("expected Bloomberg to be flagged paywalled with archive recovery")
	}
}

func TestLookup_UnknownSite(t *testing.T) {
	if h := Lookup("https://example.com/story"); h != nil {
		t.Errorf("expected nil hint, got %+v", h)
	}
}

func TestFeedFor(t *testing.T) {
	if feed := FeedFor("https://openai.com/news/announcement"); feed == "" {
		t.Error("expected a recovery feed for openai.com")
	}
	if feed := FeedFor("https://www.wsj.com/articles/x"); feed != "" {
		t.Errorf("expected no feed for wsj.com, got %q", feed)
	}
}

func TestFailureMessage(t *testing.T) {
	msg := FailureMessage("https://www.ft.com/content/abc", "all extraction strategies exhausted")
	if !strings.Contains(msg, "Financial Times") || !strings.Contains(msg, "paywall") {
		t.Errorf("expected site advice in message, got %q", msg)
	}

	plain := FailureMessage("https://example.com/x", "boom")
	if plain != "boom" {
		t.Errorf("expected unchanged message for unknown site, got %q", plain)
	}
}
