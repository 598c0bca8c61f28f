// Package logging holds zerolog helpers shared by the notice components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Portal creates a component logger tagged with a portal name.
func Portal(component, portal string) zerolog.Logger {
	return log.With().Str("cmp", component).Str("portal", portal).Logger()
}
