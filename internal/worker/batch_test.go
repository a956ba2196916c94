package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rohannagpure45/operatorNewsCuration/internal/dedupe"
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// fakeProcessor returns scripted records keyed by URL.
type fakeProcessor struct {
	records map[string]*model.ArticleRecord
	delay   time.Duration
	calls   atomic.Int64
}

func (f *fakeProcessor) Process(ctx context.Context, url string) *model.ArticleRecord {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return &model.ArticleRecord{URL: url, Status: model.StatusFailed, Error: "canceled"}
		case <-time.After(f.delay):
		}
	}
	if rec, ok := f.records[url]; ok {
		return rec
	}
	return &model.ArticleRecord{URL: url, Status: model.StatusFailed, Error: "extraction failed"}
}

func okRecord(url, title string) *model.ArticleRecord {
	return &model.ArticleRecord{
		URL:    url,
		Status: model.StatusCompleted,
		Content: &model.ExtractedContent{
			URL:       url,
			Title:     title,
			Body:      strings.Repeat("word ", 150),
			WordCount: 150,
		},
	}
}

func testConcurrency() model.ConcurrencyConfig {
	return model.ConcurrencyConfig{Workers: 3, RatePerSecond: 100, RateBurst: 10}
}

func TestProcessURLsAccountsForEveryInput(t *testing.T) {
	urls := []string{
		"https://a.example/1",
		"https://b.example/2",
		"https://gone.example/3",
	}
	proc := &fakeProcessor{records: map[string]*model.ArticleRecord{
		urls[0]: okRecord(urls[0], "Acme acquires Widget Industries"),
		urls[1]: okRecord(urls[1], "Acme Corp to acquire Widget Industries"),
	}}
	bp := NewBatchProcessor(proc, dedupe.NewClusterer(model.DedupeConfig{Threshold: 0.6, TitleWeight: 0.65, EntityWeight: 0.35}), testConcurrency())

	report := bp.ProcessURLs(context.Background(), urls)
	if report.TotalInput != 3 || report.TotalClustered != 2 {
		t.Errorf("TotalInput=%d TotalClustered=%d", report.TotalInput, report.TotalClustered)
	}
	if len(report.Unavailable) != 1 || report.Unavailable[0].URL != urls[2] {
		t.Errorf("Unavailable = %+v", report.Unavailable)
	}

	clustered := 0
	for _, c := range report.Clusters {
		clustered += c.MemberCount
	}
	if clustered+len(report.Unavailable) != len(urls) {
		t.Errorf("accounting broken: %d clustered + %d unavailable != %d inputs",
			clustered, len(report.Unavailable), len(urls))
	}
}

func TestProcessURLsMergesDuplicates(t *testing.T) {
	urls := []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}
	proc := &fakeProcessor{records: map[string]*model.ArticleRecord{
		urls[0]: okRecord(urls[0], "Acme Corp announces acquisition of Widget Industries"),
		urls[1]: okRecord(urls[1], "Acme Corp announces acquisition of Widget Industries"),
		urls[2]: okRecord(urls[2], "Acme Corp announces Widget Industries acquisition"),
	}}
	bp := NewBatchProcessor(proc, dedupe.NewClusterer(model.DedupeConfig{Threshold: 0.6, TitleWeight: 0.65, EntityWeight: 0.35}), testConcurrency())

	report := bp.ProcessURLs(context.Background(), urls)
	if len(report.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(report.Clusters))
	}
	if report.DuplicatesMerged != 3 {
		t.Errorf("DuplicatesMerged = %d, want 3", report.DuplicatesMerged)
	}
}

func TestProcessURLsStableOrder(t *testing.T) {
	var urls []string
	records := make(map[string]*model.ArticleRecord)
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("https://site%d.example/story", i)
		urls = append(urls, u)
		records[u] = okRecord(u, fmt.Sprintf("headline%d alpha%d beta%d gamma%d", i, i, i, i))
	}
	proc := &fakeProcessor{records: records}
	bp := NewBatchProcessor(proc, dedupe.NewClusterer(model.DedupeConfig{Threshold: 0.6, TitleWeight: 0.65, EntityWeight: 0.35}), testConcurrency())

	report := bp.ProcessURLs(context.Background(), urls)
	if len(report.Clusters) != 10 {
		t.Fatalf("clusters = %d, want 10 singletons", len(report.Clusters))
	}
	for i, c := range report.Clusters {
		if c.Sources[0].URL != urls[i] {
			t.Errorf("cluster %d = %s, want input order %s", i, c.Sources[0].URL, urls[i])
		}
	}
}

func TestProcessURLsBatchDeadline(t *testing.T) {
	var urls []string
	for i := 0; i < 6; i++ {
		urls = append(urls, fmt.Sprintf("https://slow%d.example/x", i))
	}
	proc := &fakeProcessor{delay: 200 * time.Millisecond}
	cfg := testConcurrency()
	cfg.Workers = 1
	cfg.BatchDeadline = 50 * time.Millisecond
	bp := NewBatchProcessor(proc, dedupe.NewClusterer(model.DedupeConfig{Threshold: 0.6}), cfg)

	report := bp.ProcessURLs(context.Background(), urls)
	if report.TotalInput != 6 {
		t.Errorf("TotalInput = %d", report.TotalInput)
	}
	// Deadline fires before most URLs run; all must still be accounted for.
	if len(report.Unavailable) != 6 {
		t.Errorf("Unavailable = %d entries, want all 6", len(report.Unavailable))
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# batch for monday
https://a.example/1

https://b.example/2
https://a.example/1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile: %v", err)
	}
	want := []string{"https://a.example/1", "https://b.example/2"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v", urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want[i])
		}
	}
}

func TestLimiterPerDomain(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow("https://a.example/x") {
		t.Error("first request to domain a denied")
	}
	if l.Allow("https://a.example/y") {
		t.Error("burst exceeded for domain a but allowed")
	}
	// A different domain has its own bucket.
	if !l.Allow("https://b.example/x") {
		t.Error("first request to domain b denied")
	}
}

func TestPoolPreservesSubmissionOrder(t *testing.T) {
	pool := NewPool(context.Background(), 4)
	pool.Start()
	for i := 0; i < 20; i++ {
		pool.Submit(&CurateJob{
			URL: fmt.Sprintf("https://x.example/%d", i),
			Processor: &fakeProcessor{records: map[string]*model.ArticleRecord{}},
		})
	}
	results := pool.Wait()
	if len(results) != 20 {
		t.Fatalf("results = %d", len(results))
	}
	for i, res := range results {
		rec := res.(*CurateResult).Record
		if rec.URL != fmt.Sprintf("https://x.example/%d", i) {
			t.Errorf("result %d = %s, out of order", i, rec.URL)
		}
	}
}
