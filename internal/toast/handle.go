package toast

import "github.com/mscartozzoni/noticeq/internal/core/notice"

// Handle is bound to one notice created by Notify. Its methods are no-ops
// once the notice has been removed.
type Handle struct {
	d  *Dispatcher
	id string
}

// ID returns the notice id.
func (h *Handle) ID() string {
	return h.id
}

// Dismiss hides the notice and schedules its removal.
func (h *Handle) Dismiss() {
	h.d.Dismiss(h.id)
}

// Update merges p into the notice.
func (h *Handle) Update(p notice.Patch) {
	h.d.Update(h.id, p)
}

// Notice returns the current notice and whether it is still queued.
func (h *Handle) Notice() (notice.Notice, bool) {
	return h.d.State().Find(h.id)
}
