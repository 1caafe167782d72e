// Package config loads application configuration from file and environment
// and owns the global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Validate ValidateConfig `yaml:"validate" mapstructure:"validate"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SearchConfig points at the catalog fuzzy-search service.
type SearchConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	ArticlesPath  string  `yaml:"articles_path" mapstructure:"articles_path"`
	CustomersPath string  `yaml:"customers_path" mapstructure:"customers_path"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// CatalogConfig configures price-list ingestion.
type CatalogConfig struct {
	MappingPath string `yaml:"mapping_path" mapstructure:"mapping_path"`
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ValidateConfig configures validation sessions.
type ValidateConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VOICEORDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.base_url", "http://localhost:9090")
	v.SetDefault("search.articles_path", "/api/search/articles")
	v.SetDefault("search.customers_path", "/api/search/customers")
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("search.rate_per_sec", 10)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "voiceorder.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("catalog.temp_dir", "/tmp/voiceorder")
	v.SetDefault("validate.debounce_ms", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
