package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ConfigPathEnv names the variable pointing at the YAML config file.
const ConfigPathEnv = "TRANSFORMER_CONFIG"

// DotEnvFile is the .env file read at load time when present.
var DotEnvFile = ".env"

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `yaml:"app"`
	Input         InputConfig         `yaml:"input"`
	Parser        ParserConfig        `yaml:"parser"`
	Output        OutputConfig        `yaml:"output"`
	Diagnostics   DiagnosticsConfig   `yaml:"diagnostics"`
	Observability ObservabilityConfig `yaml:"observability"`

	// Features is built from defaults, FeatureValues and FEATURE_* env vars.
	Features      *FeatureFlags   `yaml:"-"`
	FeatureValues map[string]bool `yaml:"features"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `yaml:"name"`
	Environment Environment `yaml:"environment"`
	Debug       bool        `yaml:"debug"`
	Version     string      `yaml:"version"`
}

// InputConfig controls how the source file is read.
type InputConfig struct {
	// Encoding is the source charset: utf-8, windows-1250 or iso-8859-2.
	Encoding string `yaml:"encoding"`
}

// ParserConfig controls line validation.
type ParserConfig struct {
	// Workers bounds concurrent line validation. 1 is fully sequential.
	Workers int `yaml:"workers"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	// Format is the default report format when none is given on the
	// command line.
	Format string `yaml:"format"`
}

// DiagnosticsConfig controls the diagnostic log.
type DiagnosticsConfig struct {
	LogFile string `yaml:"log_file"`
	// Reset truncates the log when a run starts.
	Reset bool `yaml:"reset"`
}

// ObservabilityConfig holds operational logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, text
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "apbd-data-transformer",
			Environment: EnvDevelopment,
			Version:     "0.1.0",
		},
		Input:  InputConfig{Encoding: "utf-8"},
		Parser: ParserConfig{Workers: runtime.NumCPU()},
		Output: OutputConfig{Format: "json"},
		Diagnostics: DiagnosticsConfig{
			LogFile: "log.txt",
			Reset:   true,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $TRANSFORMER_CONFIG when path is empty), then environment variables. A
// .env file is loaded first and never overrides the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dotenv: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	cfg.loadFromEnvironment()

	features, err := LoadFeatureFlags(cfg.FeatureValues)
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	cfg.Features = features

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnvironment() {
	c.App.Environment = Environment(getEnv("APP_ENV", string(c.App.Environment)))
	c.App.Debug = getEnvBool("APP_DEBUG", c.App.Debug)
	c.App.Version = getEnv("APP_VERSION", c.App.Version)

	c.Input.Encoding = getEnv("INPUT_ENCODING", c.Input.Encoding)
	c.Parser.Workers = getEnvInt("PARSER_WORKERS", c.Parser.Workers)
	c.Output.Format = getEnv("OUTPUT_FORMAT", c.Output.Format)

	c.Diagnostics.LogFile = getEnv("DIAGNOSTICS_LOG_FILE", c.Diagnostics.LogFile)
	c.Diagnostics.Reset = getEnvBool("DIAGNOSTICS_RESET", c.Diagnostics.Reset)

	c.Observability.LogLevel = getEnv("LOG_LEVEL", c.Observability.LogLevel)
	c.Observability.LogFormat = getEnv("LOG_FORMAT", c.Observability.LogFormat)
}

// Validate checks if the configuration is valid. Charset and report format
// names are resolved by the packages that own them, not here.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV %q is not one of development, staging, production", c.App.Environment))
	}

	if c.Parser.Workers < 1 {
		errs = append(errs, "PARSER_WORKERS must be at least 1")
	}

	if strings.TrimSpace(c.Diagnostics.LogFile) == "" {
		errs = append(errs, "DIAGNOSTICS_LOG_FILE is required")
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Observability.LogLevel))
	}

	switch strings.ToLower(c.Observability.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q is not one of json, text", c.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
