package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files and JSON exports carry
// human-readable values like "2s" or "250ms". Bare numbers are read as
// seconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n float64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(n * float64(time.Second)))
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// Config holds all configuration options for the feed capture tool
type Config struct {
	// Feed target settings
	Search SearchConfig `yaml:"search" json:"search"`

	// Browser automation settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Scroll / pagination settings
	Scroll ScrollConfig `yaml:"scroll" json:"scroll"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Enrichment settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchConfig holds feed query configuration
type SearchConfig struct {
	// BaseURL is the search URL template; {query} is replaced with the
	// URL-escaped query string.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Selector matches the content elements to capture.
	Selector string `yaml:"selector" json:"selector"`
	// MaxItems is the default capture target per query.
	MaxItems int `yaml:"max_items" json:"max_items"`
}

// BrowserConfig holds browser automation configuration
type BrowserConfig struct {
	Headless        bool     `yaml:"headless" json:"headless"`
	UserAgent       string   `yaml:"user_agent" json:"user_agent"`
	ViewportWidth   int      `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight  int      `yaml:"viewport_height" json:"viewport_height"`
	NavigateTimeout Duration `yaml:"navigate_timeout" json:"navigate_timeout"`
	CallTimeout     Duration `yaml:"call_timeout" json:"call_timeout"`
}

// RateLimitConfig holds capture pacing configuration
type RateLimitConfig struct {
	// CaptureDelay is the pause after every capture attempt.
	CaptureDelay Duration `yaml:"capture_delay" json:"capture_delay"`
	MaxRetries   int      `yaml:"max_retries" json:"max_retries"`
	RetryDelay   Duration `yaml:"retry_delay" json:"retry_delay"`
}

// ScrollConfig holds pagination configuration
type ScrollConfig struct {
	// MaxRounds bounds the number of scan rounds per run.
	MaxRounds int `yaml:"max_rounds" json:"max_rounds"`
	// SettleTimeout bounds the quiescence poll after a scroll.
	SettleTimeout Duration `yaml:"settle_timeout" json:"settle_timeout"`
	// SettleDelay is the fallback wait when quiescence cannot be observed.
	SettleDelay Duration `yaml:"settle_delay" json:"settle_delay"`
	// PollInterval is the quiescence polling period.
	PollInterval Duration `yaml:"poll_interval" json:"poll_interval"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory      string `yaml:"base_directory" json:"base_directory"`
	CreateQueryFolders bool   `yaml:"create_query_folders" json:"create_query_folders"`
	FileExtension      string `yaml:"file_extension" json:"file_extension"`
}

// AnalysisConfig holds enrichment pipeline configuration
type AnalysisConfig struct {
	OCREndpoint     string   `yaml:"ocr_endpoint" json:"ocr_endpoint"`
	CaptionEndpoint string   `yaml:"caption_endpoint" json:"caption_endpoint"`
	RequestTimeout  Duration `yaml:"request_timeout" json:"request_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:  "https://www.pinterest.com/search/pins/?q={query}",
			Selector: `img[src*="pinimg"]`,
			MaxItems: 10,
		},
		Browser: BrowserConfig{
			Headless:        true,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			ViewportWidth:   1920,
			ViewportHeight:  1080,
			NavigateTimeout: Duration(30 * time.Second),
			CallTimeout:     Duration(10 * time.Second),
		},
		RateLimit: RateLimitConfig{
			CaptureDelay: Duration(2 * time.Second),
			MaxRetries:   3,
			RetryDelay:   Duration(2 * time.Second),
		},
		Scroll: ScrollConfig{
			MaxRounds:     20,
			SettleTimeout: Duration(5 * time.Second),
			SettleDelay:   Duration(time.Second),
			PollInterval:  Duration(250 * time.Millisecond),
		},
		Output: OutputConfig{
			BaseDirectory:      "./captures",
			CreateQueryFolders: true,
			FileExtension:      "png",
		},
		Analysis: AnalysisConfig{
			RequestTimeout: Duration(60 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("PINSNAP_BASE_URL"); baseURL != "" {
		c.Search.BaseURL = baseURL
	}
	if selector := os.Getenv("PINSNAP_SELECTOR"); selector != "" {
		c.Search.Selector = selector
	}
	if userAgent := os.Getenv("PINSNAP_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}
	if headless := os.Getenv("PINSNAP_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if outputDir := os.Getenv("PINSNAP_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if maxItems := os.Getenv("PINSNAP_MAX_ITEMS"); maxItems != "" {
		var val int
		fmt.Sscanf(maxItems, "%d", &val)
		if val > 0 {
			c.Search.MaxItems = val
		}
	}
	if delay := os.Getenv("PINSNAP_CAPTURE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.RateLimit.CaptureDelay = Duration(d)
		}
	}
	if rounds := os.Getenv("PINSNAP_MAX_ROUNDS"); rounds != "" {
		var val int
		fmt.Sscanf(rounds, "%d", &val)
		if val > 0 {
			c.Scroll.MaxRounds = val
		}
	}
	if ocr := os.Getenv("PINSNAP_OCR_ENDPOINT"); ocr != "" {
		c.Analysis.OCREndpoint = ocr
	}
	if caption := os.Getenv("PINSNAP_CAPTION_ENDPOINT"); caption != "" {
		c.Analysis.CaptionEndpoint = caption
	}
	if logLevel := os.Getenv("PINSNAP_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".pinsnap.yaml",
		".pinsnap.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "pinsnap", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pinsnap", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pinsnap.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Search.BaseURL == "" {
		errs = append(errs, errors.New("search base URL is required"))
	}
	if !strings.Contains(c.Search.BaseURL, "{query}") {
		errs = append(errs, errors.New("search base URL must contain a {query} placeholder"))
	}
	if c.Search.Selector == "" {
		errs = append(errs, errors.New("content selector is required"))
	}
	if c.Search.MaxItems <= 0 {
		errs = append(errs, errors.New("max items must be positive"))
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errs = append(errs, errors.New("viewport dimensions must be positive"))
	}
	if c.Browser.NavigateTimeout <= 0 {
		errs = append(errs, errors.New("navigate timeout must be positive"))
	}
	if c.Browser.CallTimeout <= 0 {
		errs = append(errs, errors.New("call timeout must be positive"))
	}

	if c.RateLimit.CaptureDelay < 0 {
		errs = append(errs, errors.New("capture delay cannot be negative"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Scroll.MaxRounds <= 0 {
		errs = append(errs, errors.New("max scan rounds must be positive"))
	}
	if c.Scroll.SettleTimeout <= 0 {
		errs = append(errs, errors.New("settle timeout must be positive"))
	}
	if c.Scroll.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.FileExtension == "" {
		errs = append(errs, errors.New("file extension is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if maxItems, ok := flags["count"].(int); ok && maxItems > 0 {
		c.Search.MaxItems = maxItems
	}
	if delay, ok := flags["rate-limit"].(time.Duration); ok && delay >= 0 {
		c.RateLimit.CaptureDelay = Duration(delay)
	}
	if rounds, ok := flags["max-rounds"].(int); ok && rounds > 0 {
		c.Scroll.MaxRounds = rounds
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if selector, ok := flags["selector"].(string); ok && selector != "" {
		c.Search.Selector = selector
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pinsnap.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
