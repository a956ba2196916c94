// Package pipeline runs one URL through the full curation flow: classify,
// extract, verify, summarize. The pipeline never returns an error for a URL;
// failure is data, recorded on the ArticleRecord so batch output always
// accounts for every input.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rohannagpure45/operatorNewsCuration/internal/cache"
	"github.com/rohannagpure45/operatorNewsCuration/internal/classify"
	"github.com/rohannagpure45/operatorNewsCuration/internal/extract"
	"github.com/rohannagpure45/operatorNewsCuration/internal/factcheck"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
	"github.com/rohannagpure45/operatorNewsCuration/internal/summarize"
	"github.com/rohannagpure45/operatorNewsCuration/internal/worker"
)

// Verifier is the fact-check stage contract; satisfied by
// factcheck.Aggregator.
type Verifier interface {
	Verify(ctx context.Context, content *model.ExtractedContent) *model.VerificationResult
}

// Extractor is the extraction stage contract; satisfied by
// extract.Orchestrator.
type Extractor interface {
	Run(ctx context.Context, rawURL string, st model.SourceType) (*model.ExtractedContent, []model.ExtractionAttempt, error)
}

// Pipeline processes URLs one at a time. Safe for concurrent use; every
// stage component is either stateless or internally synchronized.
type Pipeline struct {
	cfg        *model.Config
	extractor  Extractor
	verifier   Verifier
	summarizer summarize.Summarizer
	store      cache.Store // nil when caching is disabled
	cacheTTL   time.Duration
}

// New wires the pipeline from config. The summarizer may be nil (disabled);
// the verifier degrades internally when no services are configured.
func New(cfg *model.Config) (*Pipeline, error) {
	limiter := worker.NewLimiter(cfg.Concurrency.RatePerSecond, cfg.Concurrency.RateBurst)

	summarizer, err := summarize.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure summarizer: %w", err)
	}

	p := &Pipeline{
		cfg:        cfg,
		extractor:  extract.NewOrchestrator(cfg, limiter),
		verifier:   factcheck.NewAggregator(cfg.FactCheck, cfg.Output.Verbose),
		summarizer: summarizer,
	}
	if cfg.Cache.Enabled {
		p.store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		p.cacheTTL = cfg.Cache.DiskTTL
	}
	return p, nil
}

// Process runs the full flow for one URL. The returned record is never nil
// and its status is terminal: completed, summary_failed, or failed.
func (p *Pipeline) Process(ctx context.Context, rawURL string) *model.ArticleRecord {
	started := time.Now()
	record := &model.ArticleRecord{
		ID:     uuid.NewString(),
		URL:    rawURL,
		Status: model.StatusPending,
	}
	defer func() {
		record.ProcessedAt = time.Now().UTC()
		record.DurationMS = time.Since(started).Milliseconds()
	}()

	if !classify.IsValidURL(rawURL) {
		record.Status = model.StatusFailed
		record.Error = "invalid URL"
		return record
	}
	normalized := classify.NormalizeURL(rawURL)
	record.SourceType = classify.Classify(normalized)

	record.Status = model.StatusExtracting
	content, attempts, err := p.extract(ctx, normalized, record.SourceType)
	record.Attempts = attempts
	if err != nil {
		record.Status = model.StatusFailed
		record.Error = err.Error()
		return record
	}
	record.Content = content

	if p.cfg.FactCheck.Enabled {
		record.Status = model.StatusVerifying
		record.Verification = p.verifier.Verify(ctx, content)
	}

	if p.summarizer == nil {
		record.Status = model.StatusCompleted
		return record
	}

	record.Status = model.StatusSummarizing
	summary, err := p.summarizer.Summarize(ctx, content)
	if err != nil {
		// Content survives a summarizer failure; the record still clusters
		// and reports, just without a summary.
		if p.cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: summarize %s: %v\n", rawURL, err)
		}
		record.Status = model.StatusSummaryFailed
		record.Error = fmt.Sprintf("summarization failed: %v", err)
		return record
	}
	record.Summary = summary
	record.Status = model.StatusCompleted
	return record
}

// extract checks the cache before running the strategy chain, and stores
// successful extractions after.
func (p *Pipeline) extract(ctx context.Context, rawURL string, st model.SourceType) (*model.ExtractedContent, []model.ExtractionAttempt, error) {
	key := cache.Key(rawURL)
	if p.store != nil {
		if data, ok := p.store.Get(key); ok {
			var cached model.ExtractedContent
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil, nil
			}
			_ = p.store.Delete(key)
		}
	}

	content, attempts, err := p.extractor.Run(ctx, rawURL, st)
	if err != nil {
		return nil, attempts, err
	}

	if p.store != nil {
		if data, err := json.Marshal(content); err == nil {
			if err := p.store.Set(key, data, p.cacheTTL); err != nil && p.cfg.Output.Verbose {
				fmt.Fprintf(os.Stderr, "Warning: cache write for %s: %v\n", rawURL, err)
			}
		}
	}
	return content, attempts, nil
}
