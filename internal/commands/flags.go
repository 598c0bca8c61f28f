package commands

import (
	"os"
	"path/filepath"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/data/stores"
	"github.com/mscartozzoni/noticeq/internal/portal"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Hub holds one dispatcher per configured portal.
	Hub *portal.Hub

	// History is nil when history is disabled in the config.
	History *stores.HistoryStore
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "noticeq", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "noticeq")
}
