package cli

import (
	"testing"

	"github.com/spf13/viper"
)

func TestBuildConfigLayersConfigFileOverDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("http.user_agent", "custom-agent/2.0")
	viper.Set("extraction.min_words", 42)
	viper.Set("cache.enabled", false)

	cfg, err := buildConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.UserAgent != "custom-agent/2.0" {
		t.Errorf("UserAgent = %q, want config value", cfg.HTTP.UserAgent)
	}
	if cfg.Extraction.MinWords != 42 {
		t.Errorf("MinWords = %d, want config value", cfg.Extraction.MinWords)
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled=false from config not honored")
	}
	// Keys the config does not set keep their defaults.
	if cfg.Extraction.MaxAttempts != 10 {
		t.Errorf("MaxAttempts = %d, want default", cfg.Extraction.MaxAttempts)
	}
}

func TestBuildConfigFlagOverridesConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("http.user_agent", "from-file/1.0")

	userAgent = "from-flag/1.0"
	defer func() { userAgent = "" }()

	cfg, err := buildConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.UserAgent != "from-flag/1.0" {
		t.Errorf("UserAgent = %q, want flag to win over config file", cfg.HTTP.UserAgent)
	}
}
