package commands

import (
	"os"
	"path/filepath"

	"github.com/toumakido/my-claude/todoapi/internal/config"
)

// Flags holds the global flag values shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// URL is the base URL client commands talk to.
	URL string

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
	return filepath.Join(configHome, "todoapi", "config.yaml")
}
