// Package config resolves load settings from flags, the environment, an
// optional finshield.yaml project file and built-in defaults, in that order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// WarehouseSection is the warehouse: block. Passwords are not read from the
// file; they come from the environment or an interactive prompt.
type WarehouseSection struct {
	Backend        string `yaml:"backend"`
	Account        string `yaml:"account"`
	User           string `yaml:"user"`
	Warehouse      string `yaml:"warehouse"`
	Database       string `yaml:"database"`
	Schema         string `yaml:"schema"`
	Role           string `yaml:"role"`
	Connection     string `yaml:"connection,omitempty"`
	LoginTimeout   string `yaml:"login_timeout,omitempty"`
	RequestTimeout string `yaml:"request_timeout,omitempty"`
}

// LoadSection is the load: block. Pointer fields distinguish an explicit
// zero or false from an absent key.
type LoadSection struct {
	Table                string `yaml:"table"`
	ChunkSize            *int   `yaml:"chunk_size"`
	DirectThreshold      *int   `yaml:"direct_threshold"`
	LargeDatasetWarnRows int    `yaml:"large_dataset_warn_rows"`
	Timeout              string `yaml:"timeout"`
	Verify               *bool  `yaml:"verify"`
}

// ProjectConfig is the content of finshield.yaml.
type ProjectConfig struct {
	Warehouse WarehouseSection `yaml:"warehouse"`
	Load      LoadSection      `yaml:"load"`
}

const ConfigFileName = "finshield.yaml"

// Load reads finshield.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a project config from path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}
