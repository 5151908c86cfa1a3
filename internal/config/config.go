package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/layout"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Pathstore publishing; disabled when PathstoreURL is empty
	PathstoreURL    string
	PathstoreAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL      time.Duration
	StatsWindow time.Duration

	// Parsing
	StyleRules          string
	ConfigurationStart  string
	ConfigurationEnd    string
	CommandStart        string
	CommandEnd          string
	StatusStart         string
	StatusEnd           string
	StatusTrailingPages int
	ColumnLeftMarginMM  float64
	ColumnRightMarginMM float64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("XAPIDOC_API_KEY"),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 2),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 20),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("PARSE_STATS_WINDOW", 24*time.Hour),

		StyleRules:          os.Getenv("XAPIDOC_STYLE_RULES"),
		ConfigurationStart:  envOr("SECTION_CONFIGURATION_START", "xConfiguration commands"),
		ConfigurationEnd:    envOr("SECTION_CONFIGURATION_END", "xCommand commands"),
		CommandStart:        envOr("SECTION_COMMAND_START", "xCommand commands"),
		CommandEnd:          envOr("SECTION_COMMAND_END", "xStatus commands"),
		StatusStart:         envOr("SECTION_STATUS_START", "xStatus commands"),
		StatusEnd:           envOr("SECTION_STATUS_END", "Appendices"),
		StatusTrailingPages: envInt("STATUS_TRAILING_PAGES", 2),
		ColumnLeftMarginMM:  envFloat("COLUMN_LEFT_MARGIN", 15),
		ColumnRightMarginMM: envFloat("COLUMN_RIGHT_MARGIN", 15),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 24 * time.Hour
	}
	if cfg.StatusTrailingPages < 0 {
		cfg.StatusTrailingPages = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("XAPIDOC_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.ColumnLeftMarginMM < 0 || c.ColumnRightMarginMM < 0 {
		return fmt.Errorf("column margins must not be negative")
	}
	for name, title := range map[string]string{
		"SECTION_CONFIGURATION_START": c.ConfigurationStart,
		"SECTION_CONFIGURATION_END":   c.ConfigurationEnd,
		"SECTION_COMMAND_START":       c.CommandStart,
		"SECTION_COMMAND_END":         c.CommandEnd,
		"SECTION_STATUS_START":        c.StatusStart,
		"SECTION_STATUS_END":          c.StatusEnd,
	} {
		if title == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

// PublishEnabled reports whether extracted models are written to pathstore.
func (c Config) PublishEnabled() bool {
	return c.PathstoreURL != ""
}

// Sections returns the bookmark-delimited chapters to parse.
func (c Config) Sections() map[apitree.Kind]layout.Section {
	return map[apitree.Kind]layout.Section{
		apitree.KindConfiguration: {
			Name:       string(apitree.KindConfiguration),
			StartTitle: c.ConfigurationStart,
			EndTitle:   c.ConfigurationEnd,
		},
		apitree.KindCommand: {
			Name:       string(apitree.KindCommand),
			StartTitle: c.CommandStart,
			EndTitle:   c.CommandEnd,
		},
		apitree.KindStatus: {
			Name:         string(apitree.KindStatus),
			StartTitle:   c.StatusStart,
			EndTitle:     c.StatusEnd,
			TrimTrailing: c.StatusTrailingPages,
		},
	}
}

// Columns returns the page template margins.
func (c Config) Columns() layout.ColumnLayout {
	return layout.ColumnLayout{
		LeftMarginMM:  c.ColumnLeftMarginMM,
		RightMarginMM: c.ColumnRightMarginMM,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
