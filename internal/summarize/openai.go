package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

const systemPrompt = `You are a news analyst. Summarize the article into JSON with exactly these fields:
{
  "executive_summary": "2-3 sentence summary",
  "key_points": ["up to 10 short bullet points"],
  "sentiment": "positive" | "neutral" | "negative/mixed",
  "entities": [{"text": "name", "type": "person|organization|location|product|other"}],
  "implications": ["up to 5 forward-looking implications"],
  "footnotes": [{"id": 1, "source_text": "verbatim quote supporting a key point", "context": "optional"}],
  "topics": ["up to 8 topic tags"]
}
Return only the JSON object. Every footnote source_text must be a verbatim quote from the article.`

// maxBodyChars truncates very long articles before sending; model context is
// finite and the tail of a long article rarely changes the summary.
const maxBodyChars = 24000

// OpenAISummarizer implements Summarizer over the Chat Completions API.
type OpenAISummarizer struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAISummarizer builds the summarizer. A base URL override points the
// client at any OpenAI-compatible endpoint.
func NewOpenAISummarizer(cfg model.LLMConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (s *OpenAISummarizer) Name() string { return "openai" }

func (s *OpenAISummarizer) Summarize(ctx context.Context, content *model.ExtractedContent) (*model.ContentSummary, error) {
	llmModel := s.cfg.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}
	maxTokens := s.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	timeout := s.cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := content.Body
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Title: %s\n", content.Title)
	if content.SiteName != "" {
		fmt.Fprintf(&prompt, "Source: %s\n", content.SiteName)
	}
	if content.PublishedDate != nil {
		fmt.Fprintf(&prompt, "Published: %s\n", content.PublishedDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&prompt, "\n%s", body)

	resp, err := s.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: llmModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	summary, err := parseSummary(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if err := Validate(summary); err != nil {
		return nil, fmt.Errorf("summary failed validation: %w", err)
	}
	return summary, nil
}

// parseSummary decodes the model output, tolerating a markdown code fence.
func parseSummary(raw string) (*model.ContentSummary, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var summary model.ContentSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, fmt.Errorf("unparsable summarizer response: %w", err)
	}
	return &summary, nil
}
