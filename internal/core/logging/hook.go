package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts portal and notice_id from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if portal := GetPortal(ctx); portal != "" {
		e.Str("portal", portal)
	}

	if id := GetNoticeID(ctx); id != "" {
		e.Str("notice_id", id)
	}
}
