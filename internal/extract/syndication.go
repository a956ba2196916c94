package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	classifier "github.com/rohannagpure45/operatorNewsCuration/internal/classify"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// syndicationBase is the unauthenticated CDN endpoint that embedded tweets
// read from.
const syndicationBase = "https://cdn.syndication.twimg.com/tweet-result"

// SyndicationFetch retrieves a social post through the embed syndication CDN
// rather than the platform's authenticated API. Social posts have exactly
// this one strategy; an unreachable post fails outright.
type SyndicationFetch struct {
	client      *http.Client
	baseURL     string
	maxAttempts int
}

type tweetUser struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

type tweetPayload struct {
	Text          string        `json:"text"`
	Lang          string        `json:"lang"`
	CreatedAt     string        `json:"created_at"`
	User          tweetUser     `json:"user"`
	QuotedTweet   *tweetPayload `json:"quoted_tweet,omitempty"`
	Photos        []struct{}    `json:"photos,omitempty"`
	FavoriteCount int           `json:"favorite_count"`
	RetweetCount  int           `json:"retweet_count"`
	ReplyCount    int           `json:"reply_count"`
}

// NewSyndicationFetch builds the strategy.
func NewSyndicationFetch(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig) *SyndicationFetch {
	return &SyndicationFetch{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		baseURL:     syndicationBase,
		maxAttempts: extCfg.DirectRetries,
	}
}

func (s *SyndicationFetch) Name() model.StrategyName { return model.StrategySyndication }

func (s *SyndicationFetch) MaxAttempts() int { return s.maxAttempts }

func (s *SyndicationFetch) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	tweetID := classifier.TweetID(rawURL)
	if tweetID == "" {
		return nil, Permanent("no post ID in URL", nil)
	}

	params := url.Values{}
	params.Set("id", tweetID)
	params.Set("token", syndicationToken(tweetID))
	endpoint := s.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, Permanent("build syndication request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://platform.twitter.com/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, Permanent("post not found or deleted", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, rawURL)
	}

	var tweet tweetPayload
	if err := json.NewDecoder(resp.Body).Decode(&tweet); err != nil {
		return nil, Transient("decode syndication response", err)
	}
	if strings.TrimSpace(tweet.Text) == "" {
		return nil, Permanent("post has no text", nil)
	}

	return s.shape(rawURL, &tweet), nil
}

// syndicationToken derives the CDN's expected token from the post ID: its
// leading digit. Sufficient for public posts.
func syndicationToken(tweetID string) string {
	id, err := strconv.ParseUint(tweetID, 10, 64)
	if err != nil {
		return "0"
	}
	for id >= 10 {
		id /= 10
	}
	return strconv.FormatUint(id, 10)
}

func (s *SyndicationFetch) shape(rawURL string, tweet *tweetPayload) *model.ExtractedContent {
	author := tweet.User.Name
	if author == "" {
		author = "Unknown"
	}
	if tweet.User.ScreenName != "" {
		author = fmt.Sprintf("%s (@%s)", author, tweet.User.ScreenName)
	}

	parts := []string{tweet.Text}
	if q := tweet.QuotedTweet; q != nil && q.Text != "" {
		quotedBy := q.User.Name
		if quotedBy == "" {
			quotedBy = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("[Quoting @%s]: %s", quotedBy, q.Text))
	}
	if n := len(tweet.Photos); n > 0 {
		parts = append(parts, fmt.Sprintf("[%d image(s) attached]", n))
	}
	if tweet.FavoriteCount > 0 || tweet.RetweetCount > 0 || tweet.ReplyCount > 0 {
		parts = append(parts, fmt.Sprintf("[Engagement: %d likes, %d retweets, %d replies]",
			tweet.FavoriteCount, tweet.RetweetCount, tweet.ReplyCount))
	}
	body := strings.Join(parts, "\n\n")

	content := &model.ExtractedContent{
		URL:         rawURL,
		Title:       "Post by " + author,
		Author:      author,
		SiteName:    "Twitter/X",
		Body:        body,
		WordCount:   len(strings.Fields(body)),
		Strategy:    model.StrategySyndication,
		ExtractedAt: time.Now().UTC(),
	}
	if tweet.CreatedAt != "" {
		if t, err := time.Parse(time.RubyDate, tweet.CreatedAt); err == nil {
			u := t.UTC()
			content.PublishedDate = &u
		}
	}
	return content
}
