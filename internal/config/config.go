package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all application configuration
// Fields are private to ensure immutability after creation
type Config struct {
	// Repository configuration
	repoBaseURL  string
	fetchTimeout time.Duration

	// Broker configuration
	redisHost     string
	redisPort     int
	brokerChannel string
	workers       int

	// Indexer configuration
	contentTTL     time.Duration
	bleveIndexPath string

	// Logging and ops configuration
	logLevel LogLevel
	opsAddr  string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{
		redisPort:     6379, // Standard Redis port
		brokerChannel: "repo.events",
		workers:       4,
		fetchTimeout:  30 * time.Second,
		logLevel:      LogLevelInfo,
	}

	// Repository configuration
	baseURL := os.Getenv("REPO_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("REPO_BASE_URL environment variable is required")
	}
	config.repoBaseURL = baseURL

	// Redis configuration
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil, fmt.Errorf("REDIS_HOST environment variable is required")
	}
	config.redisHost = host

	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
		}
		config.redisPort = port
	}

	if channel := os.Getenv("BROKER_CHANNEL"); channel != "" {
		config.brokerChannel = channel
	}

	if workersStr := os.Getenv("WORKERS"); workersStr != "" {
		workers, err := strconv.Atoi(workersStr)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKERS: %w", err)
		}
		config.workers = workers
	}

	// Fetch configuration
	if timeoutStr := os.Getenv("FETCH_TIMEOUT_SECONDS"); timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS: %w", err)
		}
		config.fetchTimeout = time.Duration(seconds) * time.Second
	}

	// TTL configuration, zero means indexed content never expires
	if ttlStr := os.Getenv("CONTENT_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CONTENT_TTL_HOURS: %w", err)
		}
		config.contentTTL = time.Duration(hours) * time.Hour
	}

	// Bleve index path, empty means in-memory index
	config.bleveIndexPath = os.Getenv("BLEVE_INDEX_PATH")

	// Logging configuration
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		logLevel := LogLevel(levelStr)
		if !isValidLogLevel(logLevel) {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %s (valid: debug, info, warn, error)", levelStr)
		}
		config.logLevel = logLevel
	}

	// Ops endpoint, empty disables the ops HTTP server
	config.opsAddr = os.Getenv("OPS_ADDR")

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.repoBaseURL == "" {
		return fmt.Errorf("repository base URL cannot be empty")
	}

	parsed, err := url.Parse(c.repoBaseURL)
	if err != nil {
		return fmt.Errorf("invalid repository base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("repository base URL must be http or https, got %q", c.repoBaseURL)
	}

	if c.redisHost == "" {
		return fmt.Errorf("redis host cannot be empty")
	}

	if c.redisPort <= 0 || c.redisPort > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.redisPort)
	}

	if c.brokerChannel == "" {
		return fmt.Errorf("broker channel cannot be empty")
	}

	if c.workers <= 0 {
		return fmt.Errorf("worker count must be greater than 0")
	}

	if c.fetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be greater than 0")
	}

	if c.contentTTL < 0 {
		return fmt.Errorf("content TTL cannot be negative")
	}

	if !isValidLogLevel(c.logLevel) {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.logLevel)
	}

	return nil
}

// GetRepoBaseURL returns the repository base URL notifications resolve against
func (c *Config) GetRepoBaseURL() string {
	return c.repoBaseURL
}

// GetRedisAddr returns the Redis address in host:port format
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.redisHost, c.redisPort)
}

// GetBrokerChannel returns the pub/sub channel notifications arrive on
func (c *Config) GetBrokerChannel() string {
	return c.brokerChannel
}

// GetWorkers returns the number of dispatch worker goroutines
func (c *Config) GetWorkers() int {
	return c.workers
}

// GetFetchTimeout returns the per-request timeout for content retrieval
func (c *Config) GetFetchTimeout() time.Duration {
	return c.fetchTimeout
}

// GetContentTTL returns the TTL for indexed content (zero = no expiry)
func (c *Config) GetContentTTL() time.Duration {
	return c.contentTTL
}

// GetBleveIndexPath returns the on-disk bleve index path (empty = in-memory)
func (c *Config) GetBleveIndexPath() string {
	return c.bleveIndexPath
}

// GetLogLevel returns the configured log level
func (c *Config) GetLogLevel() LogLevel {
	return c.logLevel
}

// GetOpsAddr returns the ops HTTP listen address (empty = disabled)
func (c *Config) GetOpsAddr() string {
	return c.opsAddr
}

// IsDebugEnabled returns true if debug logging is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.logLevel == LogLevelDebug
}

// Helper function to validate log levels
func isValidLogLevel(level LogLevel) bool {
	switch level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}
