package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ServerSettings configures the HTTP host.
type ServerSettings struct {
	Port             int   `json:"port" toml:"port" yaml:"port"`
	RequestSizeLimit int64 `json:"request_size_limit" toml:"request_size_limit" yaml:"request_size_limit"` // bytes
}

// Settings is the host configuration file.
type Settings struct {
	Server      ServerSettings       `json:"server" toml:"server" yaml:"server"`
	DataDir     string               `json:"data_dir" toml:"data_dir" yaml:"data_dir"`
	LogLevel    string               `json:"log_level" toml:"log_level" yaml:"log_level"`
	MaxWorkers  int                  `json:"max_workers" toml:"max_workers" yaml:"max_workers"`
	Collections []CollectionSettings `json:"collections" toml:"collections" yaml:"collections"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Port:             8080,
			RequestSizeLimit: 32 << 20,
		},
		DataDir:    "./data",
		LogLevel:   "info",
		MaxWorkers: 2,
	}
}

// LoadSettings reads a TOML (.toml) or YAML (.yaml, .yml) file on top of the defaults.
// An empty path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), settings); err != nil {
			return nil, fmt.Errorf("parsing TOML settings file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing YAML settings file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings file extension '%s' (use .toml, .yaml or .yml)", filepath.Ext(path))
	}

	settings.applyDefaults()
	return settings, nil
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if s.Server.RequestSizeLimit <= 0 {
		s.Server.RequestSizeLimit = defaults.Server.RequestSizeLimit
	}
	if s.DataDir == "" {
		s.DataDir = defaults.DataDir
	}
	if s.LogLevel == "" {
		s.LogLevel = defaults.LogLevel
	}
	if s.MaxWorkers <= 0 {
		s.MaxWorkers = defaults.MaxWorkers
	}
	for i := range s.Collections {
		s.Collections[i].ApplyDefaults()
	}
}
