package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marcelocantos/gosh/internal/builtin"
	"github.com/marcelocantos/gosh/internal/complete"
	"github.com/marcelocantos/gosh/internal/history"
	"github.com/marcelocantos/gosh/internal/lineedit"
	"github.com/marcelocantos/gosh/internal/pipeline"
	"github.com/marcelocantos/gosh/internal/resolve"
)

// Config holds the global gosh configuration.
type Config struct {
	Prompt     PromptConfig      `yaml:"prompt"`
	History    HistoryConfig     `yaml:"history"`
	Pipeline   PipelineConfig    `yaml:"pipeline"`
	Suggest    SuggestConfig     `yaml:"suggest"`
	Completion CompletionConfig  `yaml:"completion"`
	Editor     EditorConfig      `yaml:"editor"`
	Aliases    map[string]string `yaml:"aliases"`
	Vars       map[string]string `yaml:"vars"`
}

// PromptConfig controls the interactive prompt.
type PromptConfig struct {
	Color      bool `yaml:"color"`
	ShowBranch bool `yaml:"show_branch"`
}

// HistoryConfig controls in-memory history and the execution journal.
type HistoryConfig struct {
	Capacity int    `yaml:"capacity"`
	Path     string `yaml:"path"`
	// Persist records executed lines in the journal at Path and reloads
	// them at startup.
	Persist bool `yaml:"persist"`
}

// PipelineConfig bounds parsed pipelines.
type PipelineConfig struct {
	MaxStages int `yaml:"max_stages"`
	MaxArgs   int `yaml:"max_args"`
}

// SuggestConfig tunes "did you mean" suggestions.
type SuggestConfig struct {
	Threshold int `yaml:"threshold"`
	MaxLen    int `yaml:"max_len"`
}

// CompletionConfig controls the candidate listing.
type CompletionConfig struct {
	ColumnCap int `yaml:"column_cap"`
}

// EditorConfig controls the line editor.
type EditorConfig struct {
	MaxLine int `yaml:"max_line"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Prompt: PromptConfig{
			Color:      true,
			ShowBranch: true,
		},
		History: HistoryConfig{
			Capacity: history.DefaultCapacity,
			Path:     filepath.Join(home, ".local", "share", "gosh", "history.jsonl"),
			Persist:  true,
		},
		Pipeline: PipelineConfig{
			MaxStages: pipeline.DefaultMaxStages,
			MaxArgs:   pipeline.DefaultMaxArgs,
		},
		Suggest: SuggestConfig{
			Threshold: resolve.DefaultThreshold,
			MaxLen:    resolve.DefaultMaxLen,
		},
		Completion: CompletionConfig{
			ColumnCap: complete.DefaultColumnCap,
		},
		Editor: EditorConfig{
			MaxLine: lineedit.DefaultMaxLine,
		},
	}
}

// Load reads the config from the standard location (~/.config/gosh/config.yaml).
// If the file doesn't exist, returns the default config.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}

	path := filepath.Join(home, ".config", "gosh", "config.yaml")
	return LoadFrom(path)
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.History.Path = expandHome(cfg.History.Path)
	return cfg, nil
}

func (c *Config) validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"history.capacity", c.History.Capacity},
		{"pipeline.max_stages", c.Pipeline.MaxStages},
		{"pipeline.max_args", c.Pipeline.MaxArgs},
		{"suggest.threshold", c.Suggest.Threshold},
		{"suggest.max_len", c.Suggest.MaxLen},
		{"completion.column_cap", c.Completion.ColumnCap},
		{"editor.max_line", c.Editor.MaxLine},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", check.name, check.value)
		}
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// ApplySession seeds the session with the configured aliases and shell
// variables.
func (c *Config) ApplySession(s *builtin.Session) {
	for name, value := range c.Aliases {
		s.SetAlias(name, value)
	}
	for name, value := range c.Vars {
		s.SetVar(name, value)
	}
}

// ParseOptions returns the parser limits from the config.
func (c *Config) ParseOptions() pipeline.ParseOptions {
	return pipeline.ParseOptions{
		MaxStages: c.Pipeline.MaxStages,
		MaxArgs:   c.Pipeline.MaxArgs,
	}
}

// ConfigPath returns the standard config file path.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gosh", "config.yaml")
}
