// Package config provides configuration management for the wikigraph CLI.
// Values come from a config file, environment variables and flag defaults,
// merged by viper and decoded with mapstructure.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/wikigraph/internal/logger"
	"github.com/jonesrussell/wikigraph/internal/wiki"
)

// Default configuration values.
const (
	DefaultUserAgent  = "wikigraph/1.0"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 500 * time.Millisecond
	DefaultMaxDepth   = 1
	DefaultMaxPages   = 50
	DefaultStorage    = "wikigraph.db"
	DefaultServerAddr = ":8060"
	DefaultSiteName   = "Wikipedia"
)

// ErrNoHosts indicates an empty host allow-list.
var ErrNoHosts = errors.New("at least one allowed host must be configured")

// Config is the root configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"     yaml:"app"`
	Wiki    WikiConfig    `mapstructure:"wiki"    yaml:"wiki"`
	Expand  ExpandConfig  `mapstructure:"expand"  yaml:"expand"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Logging logger.Config `mapstructure:"logging" yaml:"logging"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"        yaml:"name"`
	Version     string `mapstructure:"version"     yaml:"version"`
	Environment string `mapstructure:"environment" yaml:"environment"`
	Debug       bool   `mapstructure:"debug"       yaml:"debug"`
}

// WikiConfig holds article-source settings.
type WikiConfig struct {
	// Hosts is the allow-list of article hosts; the first entry is the
	// canonical host used when resolving bare paths.
	Hosts []string `mapstructure:"hosts" yaml:"hosts"`
	// SiteName is the trailing suffix expected in page titles.
	SiteName  string        `mapstructure:"site_name"  yaml:"site_name"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"`
	RateLimit time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`
	// Polite switches the fetch collaborator to the rate-limited colly
	// client.
	Polite bool `mapstructure:"polite" yaml:"polite"`
}

// ExpandConfig holds graph-expansion settings.
type ExpandConfig struct {
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`
	// Dedup reuses an existing node when a discovered link resolves to a
	// locator already in the graph.
	Dedup bool `mapstructure:"dedup" yaml:"dedup"`
	// ReportSkipped logs how many link candidates each expansion dropped.
	ReportSkipped bool `mapstructure:"report_skipped" yaml:"report_skipped"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Path is the sqlite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// New returns a configuration populated with defaults.
func New() *Config {
	return &Config{
		App: AppConfig{
			Name:        "wikigraph",
			Version:     "0.1.0",
			Environment: "development",
		},
		Wiki: WikiConfig{
			Hosts:     []string{wiki.DefaultHost},
			SiteName:  DefaultSiteName,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
		},
		Expand: ExpandConfig{
			MaxDepth: DefaultMaxDepth,
			MaxPages: DefaultMaxPages,
		},
		Storage: StorageConfig{Path: DefaultStorage},
		Server:  ServerConfig{Address: DefaultServerAddr},
		Logging: logger.Config{Level: "info", Encoding: "console"},
	}
}

// Load decodes the merged viper settings over the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := New()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("build config decoder: %w", err)
	}
	if decodeErr := decoder.Decode(v.AllSettings()); decodeErr != nil {
		return nil, fmt.Errorf("decode configuration: %w", decodeErr)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if len(c.Wiki.Hosts) == 0 || c.Wiki.Hosts[0] == "" {
		return ErrNoHosts
	}
	if c.Expand.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative: %d", c.Expand.MaxDepth)
	}
	if c.Expand.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative: %d", c.Expand.MaxPages)
	}

	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	return nil
}
