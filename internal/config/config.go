package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DocsRoot   string         `yaml:"docs_root"`
	ReportPath string         `yaml:"report_path"`
	External   ExternalConfig `yaml:"external"`
}

// ExternalConfig controls external URL probing.
type ExternalConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // Unset means enabled
	Timeout string `yaml:"timeout,omitempty"` // Duration string, e.g. "10s"
	Workers int    `yaml:"workers,omitempty"` // Concurrent probes
}

// IsEnabled reports whether external checking is on. Unset means on.
func (e *ExternalConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// TimeoutDuration returns the parsed request timeout, defaulting to 10s
// when the value is missing or unparseable.
func (e *ExternalConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Default returns the built-in configuration used when no config file is
// present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env files first so ${VAR} expansion below can see them.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DocsRoot == "" {
		c.DocsRoot = "docs"
	}
	if c.ReportPath == "" {
		c.ReportPath = "dead_links_report.md"
	}
	if c.External.Timeout == "" {
		c.External.Timeout = "10s"
	}
	if c.External.Workers <= 0 {
		c.External.Workers = 4
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	enabled := true
	example := Config{
		DocsRoot:   "docs",
		ReportPath: "dead_links_report.md",
		External: ExternalConfig{
			Enabled: &enabled,
			Timeout: "10s",
			Workers: 4,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// loadEnvFiles loads .env and .env.local when present. godotenv never
// overwrites variables already set in the environment.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", name, err)
		}
	}
}
