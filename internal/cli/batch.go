package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohannagpure45/operatorNewsCuration/internal/dedupe"
	"github.com/rohannagpure45/operatorNewsCuration/internal/pipeline"
	"github.com/rohannagpure45/operatorNewsCuration/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	noFooter      bool
	noDedupe      bool
	dedupeCutoff  float64
	ratePerSecond float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process multiple URLs from a file into a clustered briefing",
	Long: `Batch reads URLs from a file (one per line, # comments allowed),
processes them in parallel, clusters articles that cover the same story,
and writes a briefing:
- briefing.json: the full machine-readable report
- briefing.md:   the human-readable briefing

URLs that cannot be extracted appear in the briefing's unavailable section;
they never abort the batch.

Example:
  newscurator batch urls.txt
  newscurator batch urls.txt --concurrency 10 --output-dir ./briefings
  newscurator batch urls.txt --llm --timeout 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 5, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./newscurator-briefings", "output directory for the briefing")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&ratePerSecond, "rate", 1.0, "max requests per second per domain")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in the Markdown briefing")
	batchCmd.Flags().BoolVar(&noDedupe, "no-dedupe", false, "skip clustering; every article becomes its own entry")
	batchCmd.Flags().Float64Var(&dedupeCutoff, "dedupe-threshold", 0.60, "similarity threshold for clustering")

	// Shared with process.
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks on direct fetches")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().BoolVar(&noFactCheck, "no-fact-check", false, "skip the verification stage")
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the structured summarizer (needs OPENAI_API_KEY)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "summarizer model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Concurrency.RatePerSecond = ratePerSecond
	cfg.Output.IncludeFooter = !noFooter
	cfg.Dedupe.Threshold = dedupeCutoff
	if noDedupe {
		// Threshold above 1.0 can never be met, so every article stays a
		// singleton cluster.
		cfg.Dedupe.Threshold = 1.01
	}

	fmt.Fprintf(os.Stderr, "Input file: %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir: %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "Timeout:    %v\n\n", batchTimeout)

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	bp := worker.NewBatchProcessor(p, dedupe.NewClusterer(cfg.Dedupe), cfg.Concurrency)
	report, err := bp.ProcessFile(ctx, file)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	jsonPath := filepath.Join(outputDir, "briefing.json")
	mdPath := filepath.Join(outputDir, "briefing.md")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	if err := renderer.RenderMarkdown(report, mdPath); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", jsonPath)
		fmt.Fprintf(os.Stderr, "Wrote %s\n", mdPath)
	}

	renderer.RenderSummary(report)
	return nil
}
