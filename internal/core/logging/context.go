package logging

import "context"

type contextKey string

const (
	portalKey   contextKey = "portal"
	noticeIDKey contextKey = "notice_id"
)

// WithPortal adds a portal name to the context.
func WithPortal(ctx context.Context, portal string) context.Context {
	return context.WithValue(ctx, portalKey, portal)
}

// WithNoticeID adds a notice ID to the context.
func WithNoticeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, noticeIDKey, id)
}

// GetPortal retrieves the portal name from the context.
// Returns empty string if not present.
func GetPortal(ctx context.Context) string {
	if p, ok := ctx.Value(portalKey).(string); ok {
		return p
	}
	return ""
}

// GetNoticeID retrieves the notice ID from the context.
// Returns empty string if not present.
func GetNoticeID(ctx context.Context) string {
	if id, ok := ctx.Value(noticeIDKey).(string); ok {
		return id
	}
	return ""
}
