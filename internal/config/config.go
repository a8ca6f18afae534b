// Package config holds the udputil configuration file and CLI argument
// validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode is the operation selected on the command line.
type Mode string

const (
	ModeSend      Mode = "send"
	ModeBroadcast Mode = "broadcast"
	ModeServer    Mode = "server"
	ModeQuit      Mode = "quit"
)

// Config stores values read from the YAML file. Command-line flags override
// them.
type Config struct {
	Origin    string `yaml:"origin" json:"origin"`         // overrides the host name sent as origin
	DumpWidth int    `yaml:"dump_width" json:"dump_width"` // 0 = terminal width
	Monitor   string `yaml:"monitor" json:"monitor"`       // WebSocket monitor listen address
	Debug     bool   `yaml:"debug" json:"debug"`
}

// DefaultPath returns the default config file path: ~/.udputil/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".udputil", "config.yaml")
	}
	return filepath.Join(home, ".udputil", "config.yaml")
}

// Load reads the configuration from the given YAML file path.
// If the file does not exist, it returns a default Config with no error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if perm := info.Mode().Perm(); perm&0o022 != 0 {
		fmt.Fprintf(os.Stderr,
			"warning: config file %s has permissions %04o and is writable by other users.\n",
			path, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DumpWidth < 0 {
		return nil, fmt.Errorf("parse %s: dump_width must not be negative", path)
	}

	return cfg, nil
}
