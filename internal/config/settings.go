// Package config resolves n8nctl settings from flags, environment
// variables, an optional config file, and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither environment nor config file specify a value.
const (
	DefaultServerURL = "http://localhost:5678"
	DefaultRedisAddr = "localhost:6379"
	DefaultToolPort  = 8012
)

// Config holds the resolved settings for one invocation.
type Config struct {
	ServerURL    string `yaml:"server_url"`
	WorkflowsDir string `yaml:"workflows_dir"`
	ConfigDir    string `yaml:"config_dir"`
	RedisAddr    string `yaml:"redis_addr"`
	ToolPort     int    `yaml:"tool_port"`
}

// homeDirFunc is the function used to resolve the home directory.
// Tests can override this to point at a temp directory.
var homeDirFunc = os.UserHomeDir

func defaultConfigDir() (string, error) {
	home, err := homeDirFunc()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".n8nctl"), nil
}

// Load resolves settings in priority order: environment variables,
// then <config dir>/config.yaml, then defaults. Callers apply flag
// overrides on top of the returned config.
func Load() (*Config, error) {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := &Config{ConfigDir: configDir}

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config: %w", err)
		}
		cfg.ConfigDir = configDir // file must not relocate itself
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("N8N_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("WORKFLOWS_DIR"); v != "" {
		c.WorkflowsDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("N8N_TOOL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.ToolPort = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.WorkflowsDir == "" {
		c.WorkflowsDir = filepath.Join(c.ConfigDir, "workflows")
	}
	if c.RedisAddr == "" {
		c.RedisAddr = DefaultRedisAddr
	}
	if c.ToolPort == 0 {
		c.ToolPort = DefaultToolPort
	}
}

// KeyFile returns the fixed path of the persisted API key.
func (c *Config) KeyFile() string {
	return filepath.Join(c.ConfigDir, "n8n_api_key.txt")
}

// SecretFile returns the path of the admin credentials file.
func (c *Config) SecretFile() string {
	if v := os.Getenv("N8N_SECRET_FILE"); v != "" {
		return v
	}
	return filepath.Join(c.ConfigDir, ".secret")
}

// EnsureConfigDir creates the config directory if missing. Secrets live
// here, so the directory is owner-only.
func (c *Config) EnsureConfigDir() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return nil
}
