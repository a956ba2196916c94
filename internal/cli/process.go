package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
	"github.com/rohannagpure45/operatorNewsCuration/internal/pipeline"
)

var (
	outJSON         string
	timeout         time.Duration
	userAgent       string
	maxBytes        int64
	noCache         bool
	noRobots        bool
	insecureTLS     bool
	httpProxy       string
	httpsProxy      string
	noFactCheck     bool
	llmEnabled      bool
	llmModel        string
	browserlessBase string
	residential     bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <url>",
	Short: "Process a single URL: classify, extract, verify, summarize",
	Long: `Process runs one URL through the full curation flow and prints the
resulting article record as JSON.

Example:
  newscurator process https://www.reuters.com/business/some-story
  newscurator process https://x.com/someuser/status/1234567890
  newscurator process https://example.com/article --llm --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&outJSON, "json", "", "write the record to this path instead of stdout")

	// HTTP flags
	processCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall processing timeout")
	processCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	processCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache (force fresh fetch)")
	processCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks on direct fetches")
	processCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	processCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	processCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Stage flags
	processCmd.Flags().BoolVar(&noFactCheck, "no-fact-check", false, "skip the verification stage")
	processCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the structured summarizer (needs OPENAI_API_KEY)")
	processCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "summarizer model name")

	// Fallback service flags
	processCmd.Flags().StringVar(&browserlessBase, "browserless-url", "", "Browserless base URL override")
	processCmd.Flags().BoolVar(&residential, "residential-proxy", false, "route the unblock fallback through a residential proxy")
}

func runProcess(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	record := p.Process(ctx, url)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if outJSON != "" {
		if err := os.WriteFile(outJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outJSON)
	} else {
		fmt.Println(string(data))
	}

	if record.Status == model.StatusFailed {
		return fmt.Errorf("processing failed: %s", record.Error)
	}
	return nil
}

// buildConfig layers the viper-managed config file over the defaults, then
// applies flag overrides and service credentials from the environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.Extraction.RespectRobots = false
	}
	if browserlessBase != "" {
		cfg.Extraction.BrowserlessBaseURL = browserlessBase
	}
	if residential {
		cfg.Extraction.UseResidentialProxy = true
	}

	if verbose {
		cfg.Output.Verbose = true
	}

	// Service credentials come from the environment, never flags.
	cfg.Extraction.BrowserlessAPIKey = os.Getenv("BROWSERLESS_API_KEY")
	cfg.FactCheck.GoogleAPIKey = os.Getenv("GOOGLE_FACT_CHECK_API_KEY")
	cfg.FactCheck.ClaimBusterKey = os.Getenv("CLAIMBUSTER_API_KEY")
	if noFactCheck {
		cfg.FactCheck.Enabled = false
	}

	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}
