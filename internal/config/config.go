package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server     Server     `yaml:"server" envconfig:"SERVER"`
	Logging    Logging    `yaml:"logging" envconfig:"LOGGING"`
	Paths      Paths      `yaml:"paths" envconfig:"PATHS"`
	Pipeline   Pipeline   `yaml:"pipeline" envconfig:"PIPELINE"`
	Aggregates Aggregates `yaml:"aggregates" envconfig:"AGGREGATES"`
}

// Server contains HTTP server configuration
type Server struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit       RateLimit     `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimit contains rate limiting configuration
type RateLimit struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// Logging contains logging configuration
type Logging struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json console"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// Paths contains every file system location the pipeline and the web
// process touch. All paths are resolved to absolute form by Load.
type Paths struct {
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	AccidentsFile string `yaml:"accidents_file" envconfig:"ACCIDENTS_FILE"`
	BikersFile    string `yaml:"bikers_file" envconfig:"BIKERS_FILE"`
	ProcessedDir  string `yaml:"processed_dir" envconfig:"PROCESSED_DIR"`
	CacheFile     string `yaml:"cache_file" envconfig:"CACHE_FILE"`
	QualityFile   string `yaml:"quality_file" envconfig:"QUALITY_FILE"`
	ChartsDir     string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	ExportsDir    string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Pipeline contains the batch transformation knobs
type Pipeline struct {
	// RareCategoryThreshold is the minimum share of rows a categorical
	// value needs to escape bucketing into "Other".
	RareCategoryThreshold float64 `yaml:"rare_category_threshold" envconfig:"RARE_CATEGORY_THRESHOLD" validate:"gte=0,lt=1"`
	Charts                bool    `yaml:"charts" envconfig:"CHARTS"`
	ExcelReport           bool    `yaml:"excel_report" envconfig:"EXCEL_REPORT"`
	CSVExport             bool    `yaml:"csv_export" envconfig:"CSV_EXPORT"`
}

// Aggregates contains the memoization settings for aggregation results
type Aggregates struct {
	MemoTTL      time.Duration `yaml:"memo_ttl" envconfig:"MEMO_TTL"`
	MemoCapacity uint64        `yaml:"memo_capacity" envconfig:"MEMO_CAPACITY"`
}

// Default returns the built-in configuration. File and environment values
// overlay it in that order, so env vars always win.
func Default() Config {
	return Config{
		Server: Server{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
			RateLimit:       RateLimit{Enabled: true, RPS: 100, Burst: 50},
		},
		Logging: Logging{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    "logs/app.log",
			Development: false,
		},
		Paths: Paths{
			DataDir:       "data",
			AccidentsFile: "data/Accidents.csv",
			BikersFile:    "data/Bikers.csv",
			ProcessedDir:  "processed",
			CacheFile:     "processed/bicycle_accidents.parquet",
			QualityFile:   "processed/quality_report.json",
			ChartsDir:     "processed/charts",
			ExportsDir:    "processed/exports",
			LogsDir:       "logs",
		},
		Pipeline: Pipeline{
			RareCategoryThreshold: 0.01,
			Charts:                true,
			ExcelReport:           true,
			CSVExport:             true,
		},
		Aggregates: Aggregates{
			MemoTTL:      5 * time.Minute,
			MemoCapacity: 512,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if one
// exists), then BIKES_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("BIKES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configFilePath returns the YAML config location, overridable via
// BIKES_CONFIG.
func configFilePath() string {
	if path := os.Getenv("BIKES_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against the struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// resolvePaths makes every configured path absolute so behavior does not
// depend on the working directory of whichever binary loaded the config.
func (c *Config) resolvePaths() error {
	fields := []*string{
		&c.Paths.DataDir,
		&c.Paths.AccidentsFile,
		&c.Paths.BikersFile,
		&c.Paths.ProcessedDir,
		&c.Paths.CacheFile,
		&c.Paths.QualityFile,
		&c.Paths.ChartsDir,
		&c.Paths.ExportsDir,
		&c.Paths.LogsDir,
		&c.Logging.FilePath,
	}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		abs, err := filepath.Abs(*field)
		if err != nil {
			return fmt.Errorf("cannot resolve %q: %w", *field, err)
		}
		*field = abs
	}
	return nil
}

// EnsureDirectories creates the directories the pipeline writes into
func (p Paths) EnsureDirectories() error {
	dirs := []string{p.ProcessedDir, p.ChartsDir, p.ExportsDir, p.LogsDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// InputFiles returns the raw input paths the cache freshness check
// compares against.
func (p Paths) InputFiles() []string {
	return []string{p.AccidentsFile, p.BikersFile}
}
