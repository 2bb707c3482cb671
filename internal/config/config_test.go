package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig tests the default configuration.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.Extension != DefaultExtension {
		t.Errorf("expected extension %q, got %q", DefaultExtension, c.Extension)
	}
	if c.Concurrency != DefaultConcurrency {
		t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, c.Concurrency)
	}
	if c.DBDir == "" {
		t.Error("expected a default database directory")
	}
	if c.TranscriptModel != DefaultTranscriptModel {
		t.Errorf("expected model %q, got %q", DefaultTranscriptModel, c.TranscriptModel)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.SourceDir = "weeks"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"missing source dir", func(c *Config) { c.SourceDir = "" }, ErrNoSourceDir},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"extension without dot", func(c *Config) { c.Extension = "html" }, ErrInvalidExtension},
		{"both output formats", func(c *Config) { c.JSONOutput = true; c.MarkdownOutput = true }, ErrConflictingOutputFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML configuration loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `source_dir: weeks
extension: .htm
concurrency: 8
transcript:
  model: gpt-4o
  base_url: https://openrouter.ai/api/v1
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.SourceDir != "weeks" || cf.Extension != ".htm" || cf.Concurrency != 8 {
			t.Errorf("unexpected file values: %+v", cf)
		}
		if cf.Transcript.Model != "gpt-4o" {
			t.Errorf("unexpected transcript model %q", cf.Transcript.Model)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("source_dir: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for invalid YAML")
		}
	})
}

// TestConfigApply tests merging file values under flag precedence.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("file fills unset fields", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Apply(&File{
			SourceDir:   "weeks",
			Extension:   ".htm",
			Concurrency: 8,
			Transcript:  TranscriptFile{Model: "gpt-4o", APIKey: "from-file"},
		})

		if c.SourceDir != "weeks" || c.Extension != ".htm" || c.Concurrency != 8 {
			t.Errorf("file values not applied: %+v", c)
		}
		if c.TranscriptModel != "gpt-4o" || c.APIKey != "from-file" {
			t.Errorf("transcript values not applied: model=%q key set=%v", c.TranscriptModel, c.APIKey != "")
		}
	})

	t.Run("explicit values win over file", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.SourceDir = "cli-dir"
		c.APIKey = "from-env"
		c.Apply(&File{SourceDir: "file-dir", Transcript: TranscriptFile{APIKey: "from-file"}})

		if c.SourceDir != "cli-dir" {
			t.Errorf("expected explicit source dir to win, got %q", c.SourceDir)
		}
		if c.APIKey != "from-env" {
			t.Error("expected environment API key to win")
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Apply(nil)
		if c.Extension != DefaultExtension {
			t.Errorf("unexpected mutation: %+v", c)
		}
	})
}

// TestFindConfigFile tests the config search order.
func TestFindConfigFile(t *testing.T) {
	// Changes the working directory, so no t.Parallel.

	t.Run("explicit existing path is returned", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Chdir(dir)

		got := FindConfigFile("")
		// Resolve symlinks because temp dirs may be behind one on macOS.
		wantReal, _ := filepath.EvalSymlinks(path)
		gotReal, _ := filepath.EvalSymlinks(got)
		if gotReal != wantReal {
			t.Errorf("expected %q, got %q", wantReal, gotReal)
		}
	})
}
