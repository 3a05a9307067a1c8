package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m4xw311/gpterm/errors"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user and per-project settings directory.
const DirName = ".gpterm"

type Colors struct {
	Assistant string `yaml:"assistant"`
	User      string `yaml:"user"`
}

type Config struct {
	LLMClient        string `yaml:"llm"`
	Model            string `yaml:"model"`
	MaxTokens        int64  `yaml:"max_tokens"`
	ConversationsDir string `yaml:"conversations_dir"`
	LogFile          string `yaml:"log_file"`
	Colors           Colors `yaml:"colors"`
}

// Default returns the configuration used when no file overrides a field.
func Default() *Config {
	return &Config{
		LLMClient:        "openai",
		Model:            "gpt-4o-mini",
		MaxTokens:        2048,
		ConversationsDir: filepath.Join("~", DirName, "conversations"),
		Colors: Colors{
			Assistant: "GREEN",
			User:      "YELLOW",
		},
	}
}

// LoadConfig loads configuration from the user's home directory and the current
// working directory, with the latter taking precedence.
func LoadConfig() (*Config, error) {
	cfg := Default()

	// Load user-level config first
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, DirName, "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := loadFromFile(userConfigPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	// Load project-level config, overriding user-level
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectConfigPath := filepath.Join(wd, DirName, "config.yaml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := loadFromFile(projectConfigPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	cfg.ConversationsDir = ExpandHome(cfg.ConversationsDir)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal only overwrites fields present in the YAML, so the project
	// file layers on top of the user file and the defaults.
	return yaml.Unmarshal(data, cfg)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
