// Package config handles configuration loading and validation for noticeq.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mscartozzoni/noticeq/internal/core/styles"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

// Built-in portal names.
const (
	PortalPatient   = "patient"
	PortalDoctor    = "doctor"
	PortalSecretary = "secretary"
	PortalFinancial = "financial"
	PortalInbox     = "inbox"
	PortalBudgeting = "budgeting"
)

// Config holds the application configuration.
type Config struct {
	Defaults Profile            `yaml:"defaults"`
	Portals  map[string]Profile `yaml:"portals"`
	History  HistoryConfig      `yaml:"history"`
	Theme    string             `yaml:"theme"`
	DataDir  string             `yaml:"-"` // set by caller, not from config file
}

// Profile holds the queue constants of one portal. Zero fields inherit from
// Config.Defaults.
type Profile struct {
	Capacity   int           `yaml:"capacity"`
	GraceDelay time.Duration `yaml:"grace_delay"`
	// DefaultTTL auto-dismisses notices created without their own TTL.
	// A negative value disables auto-dismiss for the portal.
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// HistoryConfig controls the SQLite notice history.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"` // 0 = unlimited retention
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Defaults: Profile{
			Capacity:   toast.DefaultCapacity,
			GraceDelay: toast.DefaultGraceDelay,
		},
		Portals: map[string]Profile{
			PortalPatient:   {},
			PortalDoctor:    {},
			PortalSecretary: {},
			PortalFinancial: {},
			PortalInbox:     {},
			PortalBudgeting: {},
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
// Portals listed in the file are merged over the built-in portals.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Defaults.Capacity == 0 {
		c.Defaults.Capacity = defaults.Defaults.Capacity
	}
	if c.Defaults.GraceDelay == 0 {
		c.Defaults.GraceDelay = defaults.Defaults.GraceDelay
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Portals == nil {
		c.Portals = map[string]Profile{}
	}
}

// PortalNames returns the configured portal names, sorted.
func (c *Config) PortalNames() []string {
	names := make([]string, 0, len(c.Portals))
	for name := range c.Portals {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Portal returns the effective profile for a portal, with unset fields taken
// from Defaults. The bool is false when the portal is not configured.
func (c *Config) Portal(name string) (Profile, bool) {
	p, ok := c.Portals[name]
	if !ok {
		return Profile{}, false
	}
	return p.inherit(c.Defaults), true
}

func (p Profile) inherit(from Profile) Profile {
	if p.Capacity == 0 {
		p.Capacity = from.Capacity
	}
	if p.GraceDelay == 0 {
		p.GraceDelay = from.GraceDelay
	}
	if p.DefaultTTL == 0 {
		p.DefaultTTL = from.DefaultTTL
	}
	return p
}

// ToastConfig converts the profile into a dispatcher configuration named name.
func (p Profile) ToastConfig(name string) toast.Config {
	return toast.Config{
		Name:       name,
		Capacity:   p.Capacity,
		GraceDelay: p.GraceDelay,
		DefaultTTL: max(p.DefaultTTL, 0),
	}
}
