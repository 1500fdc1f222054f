package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/statement-unlocker/")
	v.AddConfigPath("$HOME/.statement-unlocker")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("STATEMENT_UNLOCKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM backend defaults
	v.SetDefault("llm.backend", "auto")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.probe_timeout", "5s")

	// Ollama defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.1")
	v.SetDefault("ollama.max_tokens", 500)
	v.SetDefault("ollama.temperature", 0.1)

	// LM Studio defaults
	v.SetDefault("lmstudio.base_url", "http://localhost:1234/v1")
	v.SetDefault("lmstudio.model", "llama-3.1-8b-instruct")
	v.SetDefault("lmstudio.max_tokens", 500)
	v.SetDefault("lmstudio.temperature", 0.1)

	// llama.cpp defaults
	v.SetDefault("llamacpp.base_url", "http://localhost:8080")
	v.SetDefault("llamacpp.max_tokens", 500)
	v.SetDefault("llamacpp.temperature", 0.1)

	// Generator defaults
	v.SetDefault("generator.max_candidates", 20)
	v.SetDefault("generator.max_body_size", 1000)
	v.SetDefault("generator.seed_common_patterns", true)

	// Verifier defaults
	v.SetDefault("verifier.max_attempts", 50)
	v.SetDefault("verifier.budget", "2m")

	// PDF engine defaults
	v.SetDefault("pdf.engine", "pdfcpu")
	v.SetDefault("pdf.qpdf_path", "qpdf")

	// Store defaults
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.sqlite_path", "./statement_data.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/statement_unlocker")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
