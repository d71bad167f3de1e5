package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// CoverageOverride injects an extra required-coverage rule for dates
// matched by an RRULE, e.g. a weekly delivery day that always needs two
// people on the early shift
type CoverageOverride struct {
	RRule        string `yaml:"rrule" validate:"required"`
	ShiftID      string `yaml:"shiftID" validate:"required"`
	MinEmployees int    `yaml:"minEmployees" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	ServerAddr        string             `yaml:"serverAddr,omitempty"`
	DatabaseURL       string             `yaml:"databaseURL,omitempty"`
	ExportDir         string             `yaml:"exportDir,omitempty"`
	CoverageOverrides []CoverageOverride `yaml:"coverageOverrides,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads the configuration for an environment, looking for
// scheduler_config.<env>.yaml in the current directory and then the home
// directory. DATABASE_URL from the environment overrides the file value.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.CoverageOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in coverageOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
}

// findConfigFile searches for the environment's config file in the current
// directory and the home directory
func findConfigFile(env string) (string, error) {
	configFileName := fmt.Sprintf("scheduler_config.%s.yaml", env)

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
