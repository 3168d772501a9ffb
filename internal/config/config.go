package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds the resolved procsnap CLI configuration. Precedence, lowest
// to highest: built-in defaults, config file, environment, command line.
type Config struct {
	// ProcRoot is the procfs mount point to read from.
	ProcRoot string `env:"PROCSNAP_PROC_ROOT" toml:"proc_root"`
	// Filter is an expression over process fields; only matching processes
	// are shown. Empty means show everything.
	Filter string `env:"PROCSNAP_FILTER" toml:"filter"`
	// JSON switches output from human text to one JSON document.
	JSON bool `env:"PROCSNAP_JSON" toml:"json"`
	// Sockets enables the socket ownership join in system output.
	Sockets bool `env:"PROCSNAP_SOCKETS" toml:"sockets"`
	// PIDs are the processes to inspect; empty means a system view.
	PIDs []int `toml:"-"`
}

func defaults() Config {
	return Config{
		ProcRoot: "/proc",
		Sockets:  true,
	}
}

// Load resolves configuration from an optional TOML file at path (empty
// means no file) and the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if cfg.ProcRoot == "" {
		return nil, fmt.Errorf("proc root must not be empty")
	}
	if _, err := os.Stat(cfg.ProcRoot); err != nil {
		return nil, fmt.Errorf("proc root %s is not readable: %w", cfg.ProcRoot, err)
	}
	return &cfg, nil
}
