package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultSiteURL        = "https://clubin.co.in"
	defaultAPIBase        = "https://api.clubin.info/api"
	defaultOutputDir      = "dist"
	defaultImage          = "https://clubin.co.in/clubin-logo-og.png"
	defaultUserAgent      = "Clubin-Prerender/1.0"
	defaultRequestTimeout = 15 * time.Second
	defaultNightlyAt      = "03:00"
	defaultRetryDelay     = 5 * time.Minute
	defaultPollInterval   = 5 * time.Second
	defaultBuildDebounce  = 2 * time.Minute
	defaultLogLevel       = "info"
)

var defaultCities = []string{
	"Bengaluru", "Delhi NCR", "Goa", "Mumbai", "Pune",
	"Hyderabad", "Chandigarh", "Jaipur", "Chennai",
}

// Config is the read-only configuration shared by every build component.
type Config struct {
	SiteURL        string        `yaml:"site_url" validate:"required,url"`
	APIBase        string        `yaml:"api_base" validate:"required,url"`
	OutputDir      string        `yaml:"output_dir" validate:"required"`
	DefaultImage   string        `yaml:"default_image" validate:"required,url"`
	Cities         []string      `yaml:"cities" validate:"min=1,dive,required"`
	UserAgent      string        `yaml:"user_agent" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	APIRateLimit   float64       `yaml:"api_rate_limit" validate:"gte=0"`
	CacheDir       string        `yaml:"cache_dir" validate:"required"`
	Cached         bool          `yaml:"cached"`
	Sitemap        bool          `yaml:"sitemap"`
	LedgerPath     string        `yaml:"ledger_path"`
	MetricsFile    string        `yaml:"metrics_file"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string        `yaml:"log_format" validate:"omitempty,oneof=text json"`

	// Worker and preview server settings.
	NightlyAt      string        `yaml:"nightly_at"`
	RetryDelay     time.Duration `yaml:"retry_delay" validate:"gte=0"`
	PollInterval   time.Duration `yaml:"poll_interval" validate:"gt=0"`
	BuildDebounce  time.Duration `yaml:"build_debounce" validate:"gte=0"`
	BuildTokenHash string        `yaml:"build_token_hash"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SiteURL:        defaultSiteURL,
		APIBase:        defaultAPIBase,
		OutputDir:      defaultOutputDir,
		DefaultImage:   defaultImage,
		Cities:         append([]string(nil), defaultCities...),
		UserAgent:      defaultUserAgent,
		RequestTimeout: defaultRequestTimeout,
		CacheDir:       os.TempDir(),
		LogLevel:       defaultLogLevel,
		LogFormat:      "text",
		NightlyAt:      defaultNightlyAt,
		RetryDelay:     defaultRetryDelay,
		PollInterval:   defaultPollInterval,
		BuildDebounce:  defaultBuildDebounce,
	}
}

// Load reads the optional YAML file at filename on top of the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(filename string) (Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrapf(err, "failed to unmarshal config %s", filename)
			}
		case !os.IsNotExist(err):
			return Config{}, errors.Wrapf(err, "failed to read config %s", filename)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the build cannot work without.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// SiteRoot returns the site URL without a trailing slash.
func (c Config) SiteRoot() string {
	return strings.TrimRight(c.SiteURL, "/")
}

// APIRoot returns the API base without a trailing slash.
func (c Config) APIRoot() string {
	return strings.TrimRight(c.APIBase, "/")
}

func applyEnv(cfg *Config) {
	cfg.SiteURL = envOrDefault("SITE_URL", cfg.SiteURL)
	cfg.APIBase = envOrDefault("API_BASE", cfg.APIBase)
	cfg.OutputDir = envOrDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.DefaultImage = envOrDefault("DEFAULT_OG_IMAGE", cfg.DefaultImage)
	cfg.UserAgent = envOrDefault("USER_AGENT", cfg.UserAgent)
	cfg.RequestTimeout = envDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.APIRateLimit = envFloat("API_RATE_LIMIT", cfg.APIRateLimit)
	cfg.CacheDir = envOrDefault("CACHE_DIR", cfg.CacheDir)
	cfg.Cached = envBool("PRERENDER_CACHED", cfg.Cached)
	cfg.Sitemap = envBool("SITEMAP", cfg.Sitemap)
	cfg.LedgerPath = envOrDefault("LEDGER_PATH", cfg.LedgerPath)
	cfg.MetricsFile = envOrDefault("METRICS_FILE", cfg.MetricsFile)
	cfg.LogLevel = strings.ToLower(envOrDefault("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(envOrDefault("LOG_FORMAT", cfg.LogFormat))
	cfg.NightlyAt = envOrDefault("BUILD_NIGHTLY_AT", cfg.NightlyAt)
	cfg.RetryDelay = envDuration("BUILD_RETRY_DELAY", cfg.RetryDelay)
	cfg.PollInterval = envDuration("BUILD_POLL_INTERVAL", cfg.PollInterval)
	cfg.BuildDebounce = envDuration("BUILD_DEBOUNCE", cfg.BuildDebounce)
	cfg.BuildTokenHash = envOrDefault("BUILD_TOKEN_HASH", cfg.BuildTokenHash)

	if v := strings.TrimSpace(os.Getenv("CITIES")); v != "" {
		cities := make([]string, 0)
		for _, city := range strings.Split(v, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cities = append(cities, city)
			}
		}
		cfg.Cities = cities
	}
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
