// Package config loads the optional .relog.yaml configuration file.
//
// The file only provides defaults; flags and environment variables win.
// Resolution order for every setting is flag, then environment, then file,
// then built-in default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relog-dev/relog/core"
)

// DefaultPath is searched in the working directory when no --config flag is
// given.
const DefaultPath = ".relog.yaml"

// File mirrors the YAML configuration. Pointer fields distinguish "absent"
// from an explicit zero.
type File struct {
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	Prompt      string   `yaml:"prompt"`
	Concurrency int      `yaml:"concurrency"`
	Archive     string   `yaml:"archive"`
	Output      string   `yaml:"output"`
}

// Load reads the file at path. An empty path tries DefaultPath; a missing
// file at the default location is not an error, a missing explicit path is.
func Load(path string) (File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return File{}, nil
			}
			return File{}, fmt.Errorf("%w: config file %s", core.ErrNotFound, path)
		}
		return File{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: config file %s: %v", core.ErrFormat, path, err)
	}
	return f, nil
}

// FromEnv overlays RELOG_* environment variables onto the file values.
// Only string-valued settings have environment forms.
func (f File) FromEnv() File {
	if v := os.Getenv("RELOG_MODEL"); v != "" {
		f.Model = v
	}
	if v := os.Getenv("RELOG_BASE_URL"); v != "" {
		f.BaseURL = v
	}
	if v := os.Getenv("RELOG_PROMPT"); v != "" {
		f.Prompt = v
	}
	if v := os.Getenv("RELOG_ARCHIVE"); v != "" {
		f.Archive = v
	}
	return f
}
