package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/portal/internal/core/auth"
	"github.com/colonyops/portal/internal/core/config"
	"github.com/colonyops/portal/internal/gateway"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "portal", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "portal")
}

// openSession connects the auth service to the configured gateway.
func openSession(cfg *config.Config) (*auth.Service, error) {
	client, err := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Timeout)
	if err != nil {
		return nil, fmt.Errorf("create gateway client: %w", err)
	}

	svc, err := auth.NewService(client, cfg.SessionFile())
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return svc, nil
}
