// Package config handles loading and managing coachlab configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coachlab/coachlab/pkg/scoring"
)

// Config is the top-level configuration for coachlab.
type Config struct {
	Scoring    ScoringConfig    `yaml:"scoring"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
}

// ScoringConfig extends the built-in rubric.
type ScoringConfig struct {
	// ExtraKeywords maps a category key to phrases appended to its list.
	// "toneNegative" extends the negative tone list.
	ExtraKeywords map[string][]string `yaml:"extra_keywords"`
}

// EnrichmentConfig controls the optional language-model reply rewrite.
type EnrichmentConfig struct {
	Provider        string `yaml:"provider"` // "", "anthropic", "openai"
	Model           string `yaml:"model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	RatePerMinute   int    `yaml:"rate_per_minute"` // 0 = unlimited
	MaxTokens       int    `yaml:"max_tokens"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Port                string `yaml:"port"`
	StaticDir           string `yaml:"static_dir"`
	APIKey              string `yaml:"api_key"`
	TranscriptCacheSize int    `yaml:"transcript_cache_size"`
}

// StorageConfig selects the transcript blob backend.
type StorageConfig struct {
	Backend   string    `yaml:"backend"` // "local", "s3", "gcs"
	LocalPath string    `yaml:"local_path"`
	S3        S3Config  `yaml:"s3"`
	GCS       GCSConfig `yaml:"gcs"`
}

// S3Config configures an S3 or MinIO bucket.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// GCSConfig configures a Google Cloud Storage bucket.
type GCSConfig struct {
	Bucket string `yaml:"bucket"`
}

// DatabaseConfig configures the Postgres session index.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// Provider names.
const (
	ProviderNone      = ""
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Storage backend names.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// DefaultModels holds the model used when none is configured.
var DefaultModels = map[string]string{
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderOpenAI:    "gpt-4o-mini",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			ExtraKeywords: map[string][]string{},
		},
		Enrichment: EnrichmentConfig{
			TimeoutSeconds: 8,
			MaxTokens:      200,
		},
		Server: ServerConfig{
			Port:                "3000",
			TranscriptCacheSize: 128,
		},
		Storage: StorageConfig{
			Backend:   BackendLocal,
			LocalPath: filepath.Join(os.TempDir(), "coachlab", "transcripts"),
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Resolve locates, loads, and validates the effective configuration. The
// file is taken from explicitPath, then COACHLAB_CONFIG, then the nearest
// .coachlab/config.yaml above the working directory. Environment overrides
// are applied last.
func Resolve(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv("COACHLAB_CONFIG")
	}
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = FindConfigFile(wd)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays non-empty environment variables onto the config.
func (c *Config) ApplyEnv() error {
	envOverride(&c.Server.Port, "PORT")
	envOverride(&c.Server.StaticDir, "STATIC_DIR")
	envOverride(&c.Server.APIKey, "API_KEY")
	envOverride(&c.Database.URL, "DATABASE_URL")
	envOverride(&c.Storage.Backend, "STORAGE_BACKEND")
	envOverride(&c.Storage.LocalPath, "LOCAL_STORAGE_PATH")
	envOverride(&c.Storage.S3.Bucket, "S3_BUCKET")
	envOverride(&c.Storage.S3.Region, "S3_REGION")
	envOverride(&c.Storage.S3.Endpoint, "S3_ENDPOINT")
	envOverride(&c.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	envOverride(&c.Storage.S3.SecretKey, "S3_SECRET_KEY")
	envOverride(&c.Storage.GCS.Bucket, "GCS_BUCKET")
	envOverride(&c.Enrichment.Provider, "LLM_PROVIDER")
	envOverride(&c.Enrichment.Model, "LLM_MODEL")
	envOverride(&c.Enrichment.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&c.Enrichment.OpenAIAPIKey, "OPENAI_API_KEY")

	for _, o := range []struct {
		field *int
		key   string
	}{
		{&c.Enrichment.TimeoutSeconds, "LLM_TIMEOUT_SECONDS"},
		{&c.Enrichment.RatePerMinute, "LLM_RATE_PER_MINUTE"},
		{&c.Server.TranscriptCacheSize, "TRANSCRIPT_CACHE_SIZE"},
	} {
		if err := envOverrideInt(o.field, o.key); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	if _, err := c.Rubric(); err != nil {
		return fmt.Errorf("scoring.extra_keywords: %w", err)
	}

	switch c.Enrichment.Provider {
	case ProviderNone, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("enrichment.provider: unknown provider %q", c.Enrichment.Provider)
	}
	if c.Enrichment.TimeoutSeconds < 0 {
		return fmt.Errorf("enrichment.timeout_seconds must not be negative")
	}
	if c.Enrichment.RatePerMinute < 0 {
		return fmt.Errorf("enrichment.rate_per_minute must not be negative")
	}
	if c.Enrichment.MaxTokens < 0 {
		return fmt.Errorf("enrichment.max_tokens must not be negative")
	}
	if c.Server.TranscriptCacheSize < 0 {
		return fmt.Errorf("server.transcript_cache_size must not be negative")
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required for the local backend")
		}
	case BackendS3:
		if c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3 requires bucket and region")
		}
		if (c.Storage.S3.AccessKey == "") != (c.Storage.S3.SecretKey == "") {
			return fmt.Errorf("storage.s3 access_key and secret_key must be set together")
		}
	case BackendGCS:
		if c.Storage.GCS.Bucket == "" {
			return fmt.Errorf("storage.gcs requires bucket")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	return nil
}

// Rubric returns the default rubric extended with the configured keywords.
func (c *Config) Rubric() (scoring.Rubric, error) {
	return scoring.DefaultRubric().WithExtraKeywords(c.Scoring.ExtraKeywords)
}

// ModelOrDefault returns the configured model or the provider default.
func (e EnrichmentConfig) ModelOrDefault() string {
	if e.Model != "" {
		return e.Model
	}
	return DefaultModels[e.Provider]
}

// Timeout returns the per-call enrichment timeout.
func (e EnrichmentConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// APIKey returns the key for the selected provider.
func (e EnrichmentConfig) APIKey() string {
	switch e.Provider {
	case ProviderAnthropic:
		return e.AnthropicAPIKey
	case ProviderOpenAI:
		return e.OpenAIAPIKey
	default:
		return ""
	}
}

// FindConfigFile looks for .coachlab/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".coachlab", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
