package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sosdash"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML shape of the configuration file. Every field is
// optional; CLI flags take precedence over file values.
type File struct {
	// SourceDir is the default directory of status-report documents.
	SourceDir string `yaml:"source_dir"`

	// Extension overrides the default document extension.
	Extension string `yaml:"extension"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"db_dir"`

	// Concurrency overrides the parse concurrency.
	Concurrency int `yaml:"concurrency"`

	// Transcript configures the LLM-backed transcript parser.
	Transcript TranscriptFile `yaml:"transcript"`
}

// TranscriptFile holds LLM provider settings from the configuration file.
type TranscriptFile struct {
	// Model names the provider model, e.g. gpt-4o-mini.
	Model string `yaml:"model"`

	// BaseURL overrides the provider endpoint, e.g. for OpenRouter.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider. The environment
	// variable OPENAI_API_KEY takes precedence over this entry.
	APIKey string `yaml:"api_key"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sosdash in the current directory
// 3. Look for .sosdash in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges file values into the config, filling only fields the
// caller has not already set from flags. Flag values win because the
// zero checks run after flag parsing.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if c.SourceDir == "" && f.SourceDir != "" {
		c.SourceDir = f.SourceDir
	}
	if c.Extension == DefaultExtension && f.Extension != "" {
		c.Extension = f.Extension
	}
	if c.DBDir == XDGDataDir() && f.DBDir != "" {
		c.DBDir = f.DBDir
	}
	if c.Concurrency == DefaultConcurrency && f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}
	if c.TranscriptModel == DefaultTranscriptModel && f.Transcript.Model != "" {
		c.TranscriptModel = f.Transcript.Model
	}
	if c.TranscriptBaseURL == "" && f.Transcript.BaseURL != "" {
		c.TranscriptBaseURL = f.Transcript.BaseURL
	}
	if c.APIKey == "" && f.Transcript.APIKey != "" {
		c.APIKey = f.Transcript.APIKey
	}
}
