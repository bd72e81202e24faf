package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Store   StoreConfig
	Bot     BotConfig
	Sources SourcesConfig
	Breaker BreakerConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// StoreConfig holds entity store API connection parameters.
type StoreConfig struct {
	APIURL    string
	APIToken  string
	JWTSecret string // when set, short-lived JWTs are minted instead of sending the static token
	Timeout   time.Duration
}

// BotConfig holds orchestrator loop parameters.
type BotConfig struct {
	PollInterval   time.Duration
	ErrorBackoff   time.Duration
	DiscoveryLimit int
	RotationWindow time.Duration // category rotation bucket size
	SkipSetSize    int
	PodcastFeeds   []string // RSS feed URLs imported once at startup
	BackfillShows  []string // TV show names whose episodes are backfilled as events
}

// SourcesConfig holds per-adapter settings.
type SourcesConfig struct {
	WikipediaDelay time.Duration
	TMDBDelay      time.Duration
	TMDBAPIKey     string
	OpenAIAPIKey   string // optional page classifier
}

// BreakerConfig holds circuit breaker defaults shared by all dependencies.
type BreakerConfig struct {
	FailureThreshold int
	Timeout          time.Duration
	HalfOpenRequests int
}

// MetricsConfig holds the metrics/health endpoint parameters.
type MetricsConfig struct {
	Port string
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

const (
	defaultAPIURL         = "http://localhost:8000/api/wrestlebot"
	defaultStoreTimeout   = 30 * time.Second
	defaultPollInterval   = 15 * time.Second
	defaultErrorBackoff   = 5 * time.Second
	defaultDiscoveryLimit = 10
	defaultRotationWindow = 10 * time.Minute
	defaultSkipSetSize    = 5000

	defaultWikipediaDelay = 1 * time.Second
	defaultTMDBDelay      = 250 * time.Millisecond

	defaultFailureThreshold = 5
	defaultBreakerTimeout   = 300 * time.Second
	defaultHalfOpenRequests = 2

	defaultMetricsPort = "9090"
	defaultLogFormat   = "json"
)

// Load reads configuration from environment variables, applying defaults
// when values are not provided or invalid.
func Load() (Config, error) {
	cfg := Config{
		Store: StoreConfig{
			APIURL:    getEnv("WRESTLEBOT_API_URL", defaultAPIURL),
			APIToken:  os.Getenv("WRESTLEBOT_API_TOKEN"),
			JWTSecret: os.Getenv("WRESTLEBOT_JWT_SECRET"),
			Timeout:   defaultStoreTimeout,
		},
		Bot: BotConfig{
			PollInterval:   defaultPollInterval,
			ErrorBackoff:   defaultErrorBackoff,
			DiscoveryLimit: defaultDiscoveryLimit,
			RotationWindow: defaultRotationWindow,
			SkipSetSize:    defaultSkipSetSize,
		},
		Sources: SourcesConfig{
			WikipediaDelay: defaultWikipediaDelay,
			TMDBDelay:      defaultTMDBDelay,
			TMDBAPIKey:     os.Getenv("TMDB_API_KEY"),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		},
		Breaker: BreakerConfig{
			FailureThreshold: defaultFailureThreshold,
			Timeout:          defaultBreakerTimeout,
			HalfOpenRequests: defaultHalfOpenRequests,
		},
		Metrics: MetricsConfig{
			Port: getEnv("METRICS_PORT", defaultMetricsPort),
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
	}

	if v := os.Getenv("WRESTLEBOT_POLL_INTERVAL_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WRESTLEBOT_POLL_INTERVAL_SECONDS: %w", err)
		}
		cfg.Bot.PollInterval = d
	}

	if v := os.Getenv("WRESTLEBOT_ERROR_BACKOFF_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WRESTLEBOT_ERROR_BACKOFF_SECONDS: %w", err)
		}
		cfg.Bot.ErrorBackoff = d
	}

	if v := os.Getenv("WRESTLEBOT_DISCOVERY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid WRESTLEBOT_DISCOVERY_LIMIT: must be a positive integer")
		}
		cfg.Bot.DiscoveryLimit = n
	}

	cfg.Bot.PodcastFeeds = splitList(os.Getenv("WRESTLEBOT_PODCAST_FEEDS"))
	cfg.Bot.BackfillShows = splitList(os.Getenv("WRESTLEBOT_BACKFILL_SHOWS"))

	if v := os.Getenv("WIKIPEDIA_DELAY_MS"); v != "" {
		d, err := parseMillis(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WIKIPEDIA_DELAY_MS: %w", err)
		}
		cfg.Sources.WikipediaDelay = d
	}

	if v := os.Getenv("BREAKER_FAILURE_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: must be a positive integer")
		}
		cfg.Breaker.FailureThreshold = n
	}

	if v := os.Getenv("BREAKER_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BREAKER_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Breaker.Timeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

// ValidateStore checks the credentials the entity store client needs.
// Only the daemon requires them; the one-shot integrity pass works
// straight against the database.
func (c *Config) ValidateStore() error {
	if c.Store.APIToken == "" && c.Store.JWTSecret == "" {
		return fmt.Errorf("WRESTLEBOT_API_TOKEN or WRESTLEBOT_JWT_SECRET must be set")
	}
	return nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseMillis(raw string) (time.Duration, error) {
	millis, err := strconv.Atoi(raw)
	if err != nil || millis < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(millis) * time.Millisecond, nil
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
