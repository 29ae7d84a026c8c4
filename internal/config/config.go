// Package config loads the CLI and REPL settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the home directory.
const FileName = ".monkey.yaml"

// Config holds REPL and output settings.
type Config struct {
	Path               string `yaml:"-"`
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	Color              bool   `yaml:"color"`
	Banner             bool   `yaml:"banner"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
		HistoryFile:        "~/.monkey_history",
		Color:              true,
		Banner:             true,
	}
}

// DefaultPath returns ~/.monkey.yaml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads settings from path, starting from Default. A missing file is
// not an error; unknown keys and malformed YAML are.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg.normalize(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg.normalize(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg.normalize(), nil
}

func (c *Config) normalize() *Config {
	c.HistoryFile = expandHome(strings.TrimSpace(c.HistoryFile))
	return c
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
