// Package config reads stresslayout's TOML configuration file.
//
// A config file holds defaults for the layout options and the distance
// cache. Every key is optional:
//
//	[layout]
//	link_distance = 40
//	avoid_overlaps = true
//	initial_layout = "mds"
//
//	[cache]
//	dir = "/tmp/stresslayout"
//	disabled = false
//
// Command-line flags take precedence over values from the file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// File is the decoded config file.
type File struct {
	Layout pipeline.Options `toml:"layout"`
	Cache  Cache            `toml:"cache"`
}

// Cache configures the distance matrix cache.
type Cache struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stresslayout", "config.toml"), nil
}

// Load decodes the config file at path. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// LoadOrDefault is Load, except that a missing file yields an empty config.
func LoadOrDefault(path string) (*File, error) {
	f, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return &File{}, nil
	}
	return f, err
}

// Parse decodes config file contents.
func Parse(data string) (*File, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}
