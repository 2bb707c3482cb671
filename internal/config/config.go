package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultExtension selects which files in the source directory are
	// treated as status-report documents.
	DefaultExtension = ".html"

	// DefaultConcurrency is the number of documents parsed simultaneously.
	// Parsing is CPU-light DOM walking, so a small fixed limit keeps
	// memory bounded without starving the batch; loading is serial
	// regardless.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sosdash"

	// DefaultTranscriptModel is the LLM model used for transcript
	// extraction when none is configured.
	DefaultTranscriptModel = "gpt-4o-mini"
)

// Config holds all configuration options for the ingestion tool.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// SourceDir is the directory containing the status-report documents
	// to ingest.
	SourceDir string

	// Extension selects which directory entries count as documents.
	// Matching is case-insensitive.
	Extension string

	// DBDir is the directory holding the SQLite database file.
	// Defaults to the XDG data directory (~/.local/share/sosdash on Linux).
	DBDir string

	// Concurrency limits simultaneous document parses.
	Concurrency int

	// Replace deletes a pre-existing report with the same period-end date
	// before loading the new one. Without it a duplicate date fails that
	// report's load and the rest of the batch continues.
	Replace bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// JSONOutput emits the run summary as JSON instead of the
	// human-readable format. Mutually exclusive with MarkdownOutput.
	JSONOutput bool

	// MarkdownOutput emits the run summary as GitHub Flavored Markdown.
	// Mutually exclusive with JSONOutput.
	MarkdownOutput bool

	// OutputFile is where the run summary is written. When empty the
	// summary goes to stdout. Parent directories are created as needed.
	OutputFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sosdash in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// TranscriptModel is the LLM model used for transcript extraction.
	TranscriptModel string

	// TranscriptBaseURL overrides the LLM provider endpoint. Empty means
	// the provider's default endpoint.
	TranscriptBaseURL string

	// APIKey authenticates against the LLM provider. Usually supplied via
	// the OPENAI_API_KEY environment variable rather than a flag, so it
	// never appears in shell history.
	APIKey string
}

// NewConfig creates a new Config with default values.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves
// as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Extension:       DefaultExtension,
		Concurrency:     DefaultConcurrency,
		DBDir:           XDGDataDir(),
		TranscriptModel: DefaultTranscriptModel,
	}
}

// XDGDataDir returns the XDG data directory for the tool.
// On Linux: ~/.local/share/sosdash
// On macOS: ~/Library/Application Support/sosdash
// On Windows: %LOCALAPPDATA%\sosdash
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the tool.
// On Linux: ~/.config/sosdash
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for an ingest run.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any ingestion begins.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return ErrNoSourceDir
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if !strings.HasPrefix(c.Extension, ".") {
		return ErrInvalidExtension
	}

	if c.JSONOutput && c.MarkdownOutput {
		return ErrConflictingOutputFormats
	}

	return nil
}
