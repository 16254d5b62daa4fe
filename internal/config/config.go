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
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig locates the OHLCV source file and output directories
type DataConfig struct {
	File       string `yaml:"file" envconfig:"FILE" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
}

// AnalyticsConfig holds the numeric parameters of the analytics pipeline
type AnalyticsConfig struct {
	RiskFreeRate        float64 `yaml:"risk_free_rate" envconfig:"RISK_FREE_RATE" validate:"gte=0,lte=1"`
	TradingDaysPerYear  int     `yaml:"trading_days_per_year" envconfig:"TRADING_DAYS_PER_YEAR" validate:"gt=0"`
	SMAShortPeriod      int     `yaml:"sma_short_period" envconfig:"SMA_SHORT_PERIOD" validate:"gt=0"`
	SMAMediumPeriod     int     `yaml:"sma_medium_period" envconfig:"SMA_MEDIUM_PERIOD" validate:"gt=0"`
	SMALongPeriod       int     `yaml:"sma_long_period" envconfig:"SMA_LONG_PERIOD" validate:"gt=0"`
	RSIPeriod           int     `yaml:"rsi_period" envconfig:"RSI_PERIOD" validate:"gt=0"`
	VolatilityWindow    int     `yaml:"volatility_window" envconfig:"VOLATILITY_WINDOW" validate:"gt=0"`
	BenchmarkReturn     float64 `yaml:"benchmark_return" envconfig:"BENCHMARK_RETURN"`
	BenchmarkVolatility float64 `yaml:"benchmark_volatility" envconfig:"BENCHMARK_VOLATILITY" validate:"gte=0"`
}

// ReportConfig controls which artifacts the report sweep produces
type ReportConfig struct {
	GenerateText   bool `yaml:"generate_text" envconfig:"GENERATE_TEXT"`
	GenerateExcel  bool `yaml:"generate_excel" envconfig:"GENERATE_EXCEL"`
	GenerateCharts bool `yaml:"generate_charts" envconfig:"GENERATE_CHARTS"`
	GenerateCSV    bool `yaml:"generate_csv" envconfig:"GENERATE_CSV"`

	ChartWidth  int `yaml:"chart_width" envconfig:"CHART_WIDTH" validate:"gt=0"`
	ChartHeight int `yaml:"chart_height" envconfig:"CHART_HEIGHT" validate:"gt=0"`

	Excel ExcelStyleConfig `yaml:"excel" envconfig:"EXCEL"`
}

// ExcelStyleConfig carries the workbook color scheme (ARGB hex, no prefix)
type ExcelStyleConfig struct {
	HeaderColor   string `yaml:"header_color" envconfig:"HEADER_COLOR"`
	TitleColor    string `yaml:"title_color" envconfig:"TITLE_COLOR"`
	PositiveColor string `yaml:"positive_color" envconfig:"POSITIVE_COLOR"`
	NegativeColor string `yaml:"negative_color" envconfig:"NEGATIVE_COLOR"`
	NeutralColor  string `yaml:"neutral_color" envconfig:"NEUTRAL_COLOR"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// Load loads configuration from environment variables and an optional config
// file. Defaults come from Default(), the file overrides them, and environment
// variables override both. The structs carry no envconfig default tags so an
// unset variable leaves the field untouched.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = fileCfg
	}

	if err := envconfig.Process("MARKETLENS", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file on top of the defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// SMA periods must be strictly ascending for crossover detection to make sense
	if c.Analytics.SMAShortPeriod >= c.Analytics.SMAMediumPeriod ||
		c.Analytics.SMAMediumPeriod >= c.Analytics.SMALongPeriod {
		return fmt.Errorf("SMA periods must be ascending: got %d, %d, %d",
			c.Analytics.SMAShortPeriod, c.Analytics.SMAMediumPeriod, c.Analytics.SMALongPeriod)
	}

	return nil
}

// EnsureDirectories creates the output directories if they do not exist
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Data.ReportsDir, c.Data.ChartsDir, filepath.Dir(c.Logging.FilePath)} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath resolves a report artifact name against the reports directory
func (c *Config) ReportPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.ReportsDir, name)
}

// ChartPath resolves a chart artifact name against the charts directory
func (c *Config) ChartPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.ChartsDir, name)
}

// findConfigFile returns the path to the config file, if one exists
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			File:       "DevicesData.xlsx",
			ReportsDir: "reports",
			ChartsDir:  filepath.Join("reports", "charts"),
		},
		Analytics: AnalyticsConfig{
			RiskFreeRate:        0.02,
			TradingDaysPerYear:  252,
			SMAShortPeriod:      20,
			SMAMediumPeriod:     50,
			SMALongPeriod:       200,
			RSIPeriod:           14,
			VolatilityWindow:    30,
			BenchmarkReturn:     0.08,
			BenchmarkVolatility: 0.15,
		},
		Report: ReportConfig{
			GenerateText:   true,
			GenerateExcel:  true,
			GenerateCharts: true,
			GenerateCSV:    true,
			ChartWidth:     1200,
			ChartHeight:    600,
			Excel: ExcelStyleConfig{
				HeaderColor:   "2F75B5",
				TitleColor:    "DDEBF7",
				PositiveColor: "C6E0B4",
				NegativeColor: "F8CBAD",
				NeutralColor:  "FFEB9C",
			},
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
	}
}
