package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// Upstream conversational-commerce API. When APIToken is empty the
	// service falls back to reading SnapshotFile instead.
	APIBaseURL   string
	APIToken     string
	SnapshotFile string
	FetchTimeout time.Duration

	RefreshInterval time.Duration
	Timezone        *time.Location

	// Per-weekday sales quotas feeding the cumulative branch target
	WeekdayQuotas map[time.Weekday]int

	// WebSocket timing
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// quotaFile is the on-disk YAML shape of the weekday quota table
type quotaFile struct {
	Quotas struct {
		Monday    int `yaml:"monday"`
		Tuesday   int `yaml:"tuesday"`
		Wednesday int `yaml:"wednesday"`
		Thursday  int `yaml:"thursday"`
		Friday    int `yaml:"friday"`
		Saturday  int `yaml:"saturday"`
		Sunday    int `yaml:"sunday"`
	} `yaml:"quotas"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIBaseURL:     getEnv("API_BASE_URL", "https://api.cliengo.com/v1"),
		APIToken:       getEnv("API_TOKEN", ""),
		SnapshotFile:   getEnv("SNAPSHOT_FILE", "yesterday_sample.json"),
	}

	fetchTimeout, err := strconv.Atoi(getEnv("FETCH_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	config.FetchTimeout = time.Duration(fetchTimeout) * time.Second

	refreshMinutes, err := strconv.Atoi(getEnv("REFRESH_INTERVAL_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL_MINUTES: %w", err)
	}
	config.RefreshInterval = time.Duration(refreshMinutes) * time.Minute

	tz := getEnv("TIMEZONE", "America/Argentina/Cordoba")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	config.Timezone = loc

	config.WeekdayQuotas = loadQuotas(getEnv("QUOTAS_FILE", "quotas.yaml"))

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// DefaultQuotas is the built-in weekday quota table, used when no quota
// file is present: weekdays 50, Saturday 25, Sunday 10.
func DefaultQuotas() map[time.Weekday]int {
	return map[time.Weekday]int{
		time.Monday:    50,
		time.Tuesday:   50,
		time.Wednesday: 50,
		time.Thursday:  50,
		time.Friday:    50,
		time.Saturday:  25,
		time.Sunday:    10,
	}
}

// loadQuotas reads the quota YAML if it exists, falling back to defaults
func loadQuotas(path string) map[time.Weekday]int {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultQuotas()
	}

	var qf quotaFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return DefaultQuotas()
	}

	return map[time.Weekday]int{
		time.Monday:    qf.Quotas.Monday,
		time.Tuesday:   qf.Quotas.Tuesday,
		time.Wednesday: qf.Quotas.Wednesday,
		time.Thursday:  qf.Quotas.Thursday,
		time.Friday:    qf.Quotas.Friday,
		time.Saturday:  qf.Quotas.Saturday,
		time.Sunday:    qf.Quotas.Sunday,
	}
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
