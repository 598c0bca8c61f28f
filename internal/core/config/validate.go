package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/mscartozzoni/noticeq/internal/core/styles"
)

// maxCapacity bounds a portal queue; notices beyond a screenful are never seen.
const maxCapacity = 50

var portalNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		validateProfile("defaults", c.Defaults),
		c.validatePortals(),
		criterio.Run("history.max_entries", c.History.MaxEntries, nonNegative),
		criterio.Run("theme", c.Theme, knownTheme),
	)
}

func (c *Config) validatePortals() error {
	var checks []error
	for _, name := range c.PortalNames() {
		field := fmt.Sprintf("portals[%q]", name)
		checks = append(checks,
			criterio.Run(field, name, portalName),
			validateProfile(field, c.Portals[name]),
		)
	}
	return criterio.ValidateStruct(checks...)
}

func portalName(name string) error {
	if !portalNameRe.MatchString(name) {
		return fmt.Errorf("invalid portal name, must match %s", portalNameRe)
	}
	return nil
}

func validateProfile(field string, p Profile) error {
	var errs criterio.FieldErrorsBuilder
	if p.Capacity < 0 || p.Capacity > maxCapacity {
		errs = errs.Append(field+".capacity", fmt.Errorf("must be between 0 and %d, got %d", maxCapacity, p.Capacity))
	}
	if p.GraceDelay < 0 {
		errs = errs.Append(field+".grace_delay", fmt.Errorf("must not be negative, got %s", p.GraceDelay))
	}
	return errs.ToError()
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func knownTheme(name string) error {
	names := styles.ThemeNames()
	if !slices.Contains(names, name) {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(names, ", "))
	}
	return nil
}
