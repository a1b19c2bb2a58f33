package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"invrecon/internal/recon"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Shares   SharesConfig   `yaml:"shares" ignored:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains the register workbook and output locations.
type PathsConfig struct {
	RegistersFile string `yaml:"registers_file" envconfig:"REGISTERS_FILE" default:"data/registers.xlsx"`
	ExpensesFile  string `yaml:"expenses_file" envconfig:"EXPENSES_FILE" default:""`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig tunes the rate anomaly sweep.
type AnalysisConfig struct {
	AnomalyThresholdPct float64 `yaml:"anomaly_threshold_pct" envconfig:"ANOMALY_THRESHOLD_PCT" default:"50"`
	AnomalyIterations   int     `yaml:"anomaly_iterations" envconfig:"ANOMALY_ITERATIONS" default:"2"`
}

// SharesConfig carries the per-segment profit split table. It is YAML-only;
// the splits ship with sensible defaults and are rarely overridden.
type SharesConfig struct {
	Default  *SplitConfig            `yaml:"default"`
	Segments map[string]*SplitConfig `yaml:"segments"`
}

// SplitConfig is one partner split pair. Both values are percentages and
// must sum to 100.
type SplitConfig struct {
	PartnerA float64 `yaml:"partner_a"`
	PartnerB float64 `yaml:"partner_b"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RECON", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg.Shares = fileConfig.Shares
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ShareConfig materializes the configured split table, falling back to the
// stock splits for anything the file leaves out. The result is validated so
// a bad table fails at startup rather than mid-report.
func (c *Config) ShareConfig() (recon.ShareConfig, error) {
	shares := recon.DefaultShareConfig()

	if c.Shares.Default != nil {
		shares.Default = recon.ShareSplit{
			PartnerA: c.Shares.Default.PartnerA,
			PartnerB: c.Shares.Default.PartnerB,
		}
	}
	for segment, split := range c.Shares.Segments {
		if split == nil {
			continue
		}
		shares.Segments[recon.Segment(segment)] = recon.ShareSplit{
			PartnerA: split.PartnerA,
			PartnerB: split.PartnerB,
		}
	}

	if err := shares.Validate(); err != nil {
		return recon.ShareConfig{}, fmt.Errorf("profit share table: %w", err)
	}
	return shares, nil
}

// AnomalyParams materializes the configured anomaly sweep parameters.
func (c *Config) AnomalyParams() recon.AnomalyParams {
	params := recon.DefaultAnomalyParams()
	if c.Analysis.AnomalyThresholdPct > 0 {
		params.ThresholdPct = c.Analysis.AnomalyThresholdPct
	}
	if c.Analysis.AnomalyIterations > 0 {
		params.Iterations = c.Analysis.AnomalyIterations
	}
	return params
}

// ReportsDir returns the resolved reports directory path.
func (c *Config) ReportsDir() string {
	if filepath.IsAbs(c.Paths.ReportsDir) {
		return c.Paths.ReportsDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Paths.ReportsDir
	}
	return filepath.Join(wd, c.Paths.ReportsDir)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Paths.RegistersFile == "" {
		return fmt.Errorf("registers file path must be specified")
	}

	if c.Analysis.AnomalyThresholdPct < 0 {
		return fmt.Errorf("anomaly threshold must not be negative")
	}

	if c.Analysis.AnomalyIterations < 1 {
		return fmt.Errorf("anomaly iterations must be at least 1")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if _, err := c.ShareConfig(); err != nil {
		return err
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv("RECON_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			RegistersFile: "data/registers.xlsx",
			ReportsDir:    "reports",
			LogsDir:       "logs",
		},
		Analysis: AnalysisConfig{
			AnomalyThresholdPct: recon.DefaultAnomalyThresholdPct,
			AnomalyIterations:   recon.DefaultAnomalyIterations,
		},
	}
}
