package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	bloghttp "github.com/fwojciec/blogtext/http"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration directory.
const AppName = "blogtext"

// ConfigFile is the configuration file name inside the config directory.
const ConfigFile = "config.yaml"

// Config holds settings read from the YAML configuration file.
// Zero values mean "use the built-in default".
type Config struct {
	Routes        []bloghttp.Route `yaml:"routes"`
	ProbePaths    []string         `yaml:"probe_paths"`
	Timeout       time.Duration    `yaml:"timeout"`
	Retries       *int             `yaml:"retries"`
	Backoff       time.Duration    `yaml:"backoff"`
	MaxIndexPages int              `yaml:"max_index_pages"`
	RelayRPS      float64          `yaml:"relay_rps"`
	GeminiModel   string           `yaml:"gemini_model"`
}

// DefaultConfigPath returns the XDG location of the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFile)
}

// LoadConfig reads the configuration at path. A missing file at the
// default location yields an empty Config; a missing file the user named
// explicitly is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
