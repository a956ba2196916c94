// Package classify maps raw URLs to source types using an ordered rule list.
// Classification is total and deterministic: rules are evaluated in a fixed
// order, the first match wins, and unknown domains fall through to
// SourceArticle so the extraction orchestrator always has a strategy chain.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Rule order matters: social patterns are checked before filing patterns,
// and both before the generic article fallback, so no URL can match two
// categories ambiguously.
var socialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://([^/]*\.)?(twitter|x)\.com/\w+/status/\d+`),
	regexp.MustCompile(`^https?://([^/]*\.)?(twitter|x)\.com/\w+/?$`),
}

var filingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?sec\.gov/`),
	regexp.MustCompile(`^https?://(www\.)?13f\.info/`),
	regexp.MustCompile(`^https?://(www\.)?secfilings\.nasdaq\.com/`),
}

var tweetIDPattern = regexp.MustCompile(`/status/(\d+)`)

// Classify returns the source type for a URL. Side-effect-free; calling it
// twice on the same URL yields the same result.
func Classify(rawURL string) model.SourceType {
	lower := strings.ToLower(rawURL)

	for _, p := range socialPatterns {
		if p.MatchString(lower) {
			return model.SourceSocialPost
		}
	}
	for _, p := range filingPatterns {
		if p.MatchString(lower) {
			return model.SourceRegulatoryFiling
		}
	}

	// Everything else, including unknown domains, takes the article chain:
	// it has the broadest strategy set and degrades gracefully.
	return model.SourceArticle
}

// IsValidURL reports whether the URL is well-formed and uses a supported
// scheme. Invalid URLs are rejected before classification.
func IsValidURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// NormalizeURL produces a canonical form: scheme added when missing,
// trailing path slashes trimmed, fragment dropped.
func NormalizeURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := parsed.Path
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}

	normalized := parsed.Scheme + "://" + parsed.Host + path
	if parsed.RawQuery != "" {
		normalized += "?" + parsed.RawQuery
	}
	return normalized
}

// TweetID extracts the status ID from a social post URL, or "" when absent.
func TweetID(rawURL string) string {
	m := tweetIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Host returns the URL's hostname without a www. prefix, lowercased.
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}
