package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rohannagpure45/operatorNewsCuration/internal/dedupe"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Processor turns one URL into an ArticleRecord. It never returns an error:
// terminal failures travel inside the record.
type Processor interface {
	Process(ctx context.Context, url string) *model.ArticleRecord
}

// CurateJob processes one URL through the pipeline.
type CurateJob struct {
	URL       string
	Processor Processor
}

// CurateResult wraps the record for the pool.
type CurateResult struct {
	Record *model.ArticleRecord
}

func (j *CurateJob) Execute(ctx context.Context) Result {
	return &CurateResult{Record: j.Processor.Process(ctx, j.URL)}
}

func (r *CurateResult) GetError() error {
	if r.Record != nil && r.Record.Error != "" {
		return fmt.Errorf("%s", r.Record.Error)
	}
	return nil
}

// BatchProcessor fans a URL list across the worker pool, then clusters the
// drained results into a report. Clustering runs single-threaded after the
// pool drains; it sees the complete record set in input order.
type BatchProcessor struct {
	processor Processor
	clusterer *dedupe.Clusterer
	workers   int
	deadline  time.Duration // zero means no batch deadline
}

// NewBatchProcessor builds the batch driver.
func NewBatchProcessor(processor Processor, clusterer *dedupe.Clusterer, cfg model.ConcurrencyConfig) *BatchProcessor {
	return &BatchProcessor{
		processor: processor,
		clusterer: clusterer,
		workers:   cfg.Workers,
		deadline:  cfg.BatchDeadline,
	}
}

// ProcessURLs runs the batch and assembles the report. Every input URL lands
// in exactly one of the report's two lists: a cluster membership or the
// unavailable list.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) *model.BatchReport {
	report := &model.BatchReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		TotalInput:  len(urls),
	}
	if len(urls) == 0 {
		return report
	}

	if b.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.deadline)
		defer cancel()
	}

	pool := NewPool(ctx, b.workers)
	pool.Start()
	for _, u := range urls {
		pool.Submit(&CurateJob{URL: u, Processor: b.processor})
	}
	results := pool.Wait()

	records := make([]*model.ArticleRecord, 0, len(urls))
	for i, res := range results {
		cr, ok := res.(*CurateResult)
		if !ok || cr.Record == nil {
			// Slot never executed: the batch deadline cut it off.
			records = append(records, &model.ArticleRecord{
				URL:    urls[i],
				Status: model.StatusFailed,
				Error:  "batch deadline exceeded before processing",
			})
			continue
		}
		records = append(records, cr.Record)
	}

	for _, rec := range records {
		if rec.Extracted() {
			report.TotalClustered++
			continue
		}
		reason := rec.Error
		if reason == "" {
			reason = "extraction failed"
		}
		report.Unavailable = append(report.Unavailable, model.UnavailableSource{
			URL:    rec.URL,
			Reason: reason,
		})
	}

	report.Clusters = b.clusterer.Cluster(records)
	for _, c := range report.Clusters {
		if c.Merged {
			report.DuplicatesMerged += c.MemberCount
		}
	}
	return report
}

// ProcessFile reads a URL list file and runs the batch.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) (*model.BatchReport, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks and # comments
// and dropping duplicate lines.
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return urls, nil
}
