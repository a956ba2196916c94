package model

import "time"

// Config is the full application configuration. Values layer from defaults,
// then ~/.newscurator/config.yaml (with NEWSCURATOR_* env vars overriding
// matching file keys), then CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Extraction  ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	FactCheck   FactCheckConfig   `yaml:"fact_check" mapstructure:"fact_check"`
	Dedupe      DedupeConfig      `yaml:"dedupe" mapstructure:"dedupe"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig covers the shared HTTP client behavior.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ExtractionConfig tunes the per-URL escalation state machine.
type ExtractionConfig struct {
	// Per-strategy retry ceilings for transient failures.
	DirectRetries  int `yaml:"direct_retries" mapstructure:"direct_retries"`
	BrowserRetries int `yaml:"browser_retries" mapstructure:"browser_retries"`
	UnblockRetries int `yaml:"unblock_retries" mapstructure:"unblock_retries"`
	ArchiveRetries int `yaml:"archive_retries" mapstructure:"archive_retries"`

	// Global per-URL budget: total attempts and wall clock across all
	// strategies. When exhausted, remaining strategies are skipped.
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	MaxElapsed  time.Duration `yaml:"max_elapsed" mapstructure:"max_elapsed"`

	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	BackoffBase    time.Duration `yaml:"backoff_base" mapstructure:"backoff_base"`

	// Plausibility floor: a response with fewer words is a failure even when
	// the HTTP layer reported success (paywall stubs, block pages).
	MinWords       int `yaml:"min_words" mapstructure:"min_words"`
	MinWordsSocial int `yaml:"min_words_social" mapstructure:"min_words_social"`

	// Browserless credentials for the stealth render and unblock fallbacks.
	BrowserlessAPIKey   string `yaml:"browserless_api_key" mapstructure:"browserless_api_key"`
	BrowserlessBaseURL  string `yaml:"browserless_base_url" mapstructure:"browserless_base_url"`
	UseResidentialProxy bool   `yaml:"use_residential_proxy" mapstructure:"use_residential_proxy"`
	UseUnblock          bool   `yaml:"use_unblock" mapstructure:"use_unblock"`

	ArchiveBaseURL string `yaml:"archive_base_url" mapstructure:"archive_base_url"`
	RespectRobots  bool   `yaml:"respect_robots" mapstructure:"respect_robots"`

	// Circuit breaker over the fallback services.
	BreakerThreshold int           `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerReset     time.Duration `yaml:"breaker_reset" mapstructure:"breaker_reset"`
}

// FactCheckConfig configures the verification services. The free aggregator
// is always on; paid services activate when a key is present.
type FactCheckConfig struct {
	Enabled        bool              `yaml:"enabled" mapstructure:"enabled"`
	GoogleAPIKey   string            `yaml:"google_api_key" mapstructure:"google_api_key"`
	ClaimBusterKey string            `yaml:"claimbuster_api_key" mapstructure:"claimbuster_api_key"`
	MaxClaims      int               `yaml:"max_claims" mapstructure:"max_claims"`
	ServiceTimeout time.Duration     `yaml:"service_timeout" mapstructure:"service_timeout"`
	Credibility    CredibilityConfig `yaml:"credibility" mapstructure:"credibility"`
}

// CredibilityConfig maps publisher domains to trust scores.
type CredibilityConfig struct {
	HighTrustDomains []string `yaml:"high_trust_domains" mapstructure:"high_trust_domains"`
	LowTrustDomains  []string `yaml:"low_trust_domains" mapstructure:"low_trust_domains"`
	DefaultScore     float64  `yaml:"default_score" mapstructure:"default_score"`
}

// DedupeConfig exposes the clustering threshold and scoring weights; the
// right values vary by corpus, so they are configuration rather than
// constants.
type DedupeConfig struct {
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold"`
	TitleWeight  float64 `yaml:"title_weight" mapstructure:"title_weight"`
	EntityWeight float64 `yaml:"entity_weight" mapstructure:"entity_weight"`
}

// ConcurrencyConfig bounds batch parallelism and downstream request rates.
type ConcurrencyConfig struct {
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	BatchDeadline time.Duration `yaml:"batch_deadline" mapstructure:"batch_deadline"`
}

// LLMConfig configures the structured summarizer.
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures the layered extraction cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig covers report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "NewsCurator/1.0 (+https://github.com/rohannagpure45/operatorNewsCuration)",
			MaxBodyBytes: 2_000_000,
		},
		Extraction: ExtractionConfig{
			DirectRetries:      3,
			BrowserRetries:     2,
			UnblockRetries:     2,
			ArchiveRetries:     2,
			MaxAttempts:        10,
			MaxElapsed:         3 * time.Minute,
			AttemptTimeout:     30 * time.Second,
			BackoffBase:        time.Second,
			MinWords:           80,
			MinWordsSocial:     10,
			BrowserlessBaseURL: "https://production-sfo.browserless.io",
			UseUnblock:         true,
			ArchiveBaseURL:     "https://archive.org",
			RespectRobots:      true,
			BreakerThreshold:   3,
			BreakerReset:       60 * time.Second,
		},
		FactCheck: FactCheckConfig{
			Enabled:        true,
			MaxClaims:      5,
			ServiceTimeout: 10 * time.Second,
			Credibility: CredibilityConfig{
				HighTrustDomains: []string{
					"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk",
					"nytimes.com", "wsj.com", "bloomberg.com", "ft.com",
					"economist.com", "theguardian.com", "washingtonpost.com",
				},
				LowTrustDomains: []string{},
				DefaultScore:    0.5,
			},
		},
		Dedupe: DedupeConfig{
			Threshold:    0.60,
			TitleWeight:  0.65,
			EntityWeight: 0.35,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       5,
			RatePerSecond: 1.0,
			RateBurst:     3,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   60 * time.Second,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".newscurator-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
