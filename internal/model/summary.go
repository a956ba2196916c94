package model

// Sentiment is the overall tone of a summarized story.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative/mixed"
)

// ValidSentiment reports whether s is one of the schema values.
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Entity is a named entity surfaced by the summarizer.
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"` // person, organization, location, product, other
}

// Footnote anchors a summary statement back to source text.
type Footnote struct {
	ID         int    `json:"id"`
	SourceText string `json:"source_text"`
	Context    string `json:"context,omitempty"`
}

// ContentSummary is the schema-validated object returned by the external
// summarizer. The pipeline treats it as opaque apart from schema checks.
type ContentSummary struct {
	ExecutiveSummary string     `json:"executive_summary"`
	KeyPoints        []string   `json:"key_points"`
	Sentiment        Sentiment  `json:"sentiment"`
	Entities         []Entity   `json:"entities"`
	Implications     []string   `json:"implications"`
	Footnotes        []Footnote `json:"footnotes"`
	Topics           []string   `json:"topics,omitempty"`
}
