package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName          = "albion-scalper"
	EnvFileName      = "config.env"
	SettingsFileName = "settings.yaml"
)

// RawRule is a category rule as it appears in settings.yaml. Value is left
// untyped here; the items package validates it when building its rule table.
type RawRule struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

type Config struct {
	Api struct {
		BaseUrl string `yaml:"base_url"`
	} `yaml:"api"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Items struct {
		Url                  string `yaml:"url"`
		File                 string `yaml:"file"`
		CustomCategoriesFile string `yaml:"custom_categories_file"`
	} `yaml:"items"`
	ItemCategories map[string]RawRule `yaml:"item_categories"`
}

// Load reads and validates the settings file at the given path.
func Load(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read settings file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if cfg.Api.BaseUrl == "" {
		return nil, fmt.Errorf("settings file %s is missing api.base_url", path)
	}

	return &cfg, nil
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}
