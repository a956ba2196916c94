package model

import "time"

// SourceType classifies a URL's content genre, which determines the
// extraction strategy chain used for it.
type SourceType string

const (
	SourceArticle          SourceType = "article"
	SourceSocialPost       SourceType = "social_post"
	SourceRegulatoryFiling SourceType = "regulatory_filing"
	SourceUnknown          SourceType = "unknown"
)

// StrategyName identifies one concrete extraction strategy.
type StrategyName string

const (
	StrategyDirectFetch     StrategyName = "direct_fetch"
	StrategyFeedRecover     StrategyName = "feed_recover"
	StrategyStealthBrowser  StrategyName = "stealth_browser_render"
	StrategyCloudUnblock    StrategyName = "cloud_unblock"
	StrategyArchiveSnapshot StrategyName = "archive_snapshot"
	StrategySyndication     StrategyName = "syndication_fetch"
	StrategyStructuredHTML  StrategyName = "structured_html_parse"
)

// AttemptOutcome records how a single extraction attempt ended.
type AttemptOutcome string

const (
	AttemptSucceeded AttemptOutcome = "success"
	AttemptFailed    AttemptOutcome = "failure"
	AttemptSkipped   AttemptOutcome = "skipped" // budget exhausted or breaker open
)

// ExtractionAttempt is one (strategy, URL) try. Attempts are appended in
// order and never mutated after completion; the full log survives on the
// record even after a later strategy succeeds.
type ExtractionAttempt struct {
	Strategy    StrategyName   `json:"strategy"`
	Attempt     int            `json:"attempt"` // 1-based within the strategy
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Outcome     AttemptOutcome `json:"outcome"`
	Reason      string         `json:"reason,omitempty"`
	Transient   bool           `json:"transient,omitempty"`
}

// ExtractedContent holds the clean text and metadata produced by whichever
// strategy succeeded first. Immutable after creation.
type ExtractedContent struct {
	URL           string       `json:"url"`
	Title         string       `json:"title,omitempty"`
	Author        string       `json:"author,omitempty"`
	SiteName      string       `json:"site_name,omitempty"`
	PublishedDate *time.Time   `json:"published_date,omitempty"`
	Body          string       `json:"body"`
	WordCount     int          `json:"word_count"`
	Strategy      StrategyName `json:"strategy"`
	ExtractedAt   time.Time    `json:"extracted_at"`
}

// ProcessingStatus tracks the per-URL pipeline lifecycle.
type ProcessingStatus string

const (
	StatusPending       ProcessingStatus = "pending"
	StatusExtracting    ProcessingStatus = "extracting"
	StatusVerifying     ProcessingStatus = "verifying"
	StatusSummarizing   ProcessingStatus = "summarizing"
	StatusCompleted     ProcessingStatus = "completed"
	StatusSummaryFailed ProcessingStatus = "summary_failed" // content extracted, summarizer failed
	StatusFailed        ProcessingStatus = "failed"
)

// ArticleRecord is the unit of per-URL output: the extracted content plus
// verification and processing metadata. A record exists for every input URL,
// whether extraction succeeded or terminally failed.
type ArticleRecord struct {
	ID           string              `json:"id"`
	URL          string              `json:"url"`
	SourceType   SourceType          `json:"source_type"`
	Status       ProcessingStatus    `json:"status"`
	Content      *ExtractedContent   `json:"content,omitempty"`
	Attempts     []ExtractionAttempt `json:"attempts,omitempty"`
	Verification *VerificationResult `json:"verification,omitempty"`
	Summary      *ContentSummary     `json:"summary,omitempty"`
	Error        string              `json:"error,omitempty"`
	ProcessedAt  time.Time           `json:"processed_at"`
	DurationMS   int64               `json:"duration_ms"`
}

// Extracted reports whether the record carries usable content.
func (r *ArticleRecord) Extracted() bool {
	return r.Content != nil && r.Content.Body != ""
}

// UnavailableSource is the reportable entry for a URL whose extraction
// terminally failed. Every failed input URL appears exactly once.
type UnavailableSource struct {
	URL    string `json:"url"`
	Reason string `json:"failure_reason"`
}
