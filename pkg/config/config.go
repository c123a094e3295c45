package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the gamehdr configuration
type Config struct {
	DataDir string  `yaml:"data_dir"`
	Port    int     `yaml:"port"`
	Bind    string  `yaml:"bind"`
	APIKey  string  `yaml:"api_key"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// Storage contains header log settings
type Storage struct {
	FsyncInterval time.Duration `yaml:"fsync_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Storage: Storage{
			FsyncInterval: 0,
			BufferSize:    4096,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for values the rest of gamehdr cannot use
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Storage.FsyncInterval < 0 {
		return fmt.Errorf("storage.fsync_interval must not be negative")
	}
	if c.Storage.BufferSize < 0 {
		return fmt.Errorf("storage.buffer_size must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json", "":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./gamehdr.yaml"
	}

	return filepath.Join(homeDir, ".config", "gamehdr", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
