// Package summarize turns extracted article text into a structured summary
// through an external language model. The pipeline treats the summary as
// opaque beyond schema validation; a summarizer failure degrades the record,
// it never discards the extracted content.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Summarizer produces a schema-valid ContentSummary for extracted content.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, content *model.ExtractedContent) (*model.ContentSummary, error)
}

// New returns the configured summarizer, or nil when summarization is
// disabled (no provider configured).
func New(cfg model.LLMConfig) (Summarizer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAISummarizer(cfg)
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}

// Validate checks a summary against the schema contract: a non-empty
// executive summary, a recognized sentiment, and entity types from the
// fixed vocabulary.
func Validate(s *model.ContentSummary) error {
	if s == nil {
		return fmt.Errorf("summary is nil")
	}
	if strings.TrimSpace(s.ExecutiveSummary) == "" {
		return fmt.Errorf("executive summary is empty")
	}
	if !model.ValidSentiment(s.Sentiment) {
		return fmt.Errorf("invalid sentiment %q", s.Sentiment)
	}
	for _, e := range s.Entities {
		switch e.Type {
		case "person", "organization", "location", "product", "other":
		default:
			return fmt.Errorf("invalid entity type %q for %q", e.Type, e.Text)
		}
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("entity with empty text")
		}
	}
	for _, fn := range s.Footnotes {
		if fn.ID <= 0 {
			return fmt.Errorf("footnote with non-positive id %d", fn.ID)
		}
	}
	return nil
}
