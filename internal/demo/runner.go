package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mscartozzoni/noticeq/internal/core/logging"
	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

// ErrUnknownRef is returned by Run for an update or dismiss step naming a
// ref no earlier notify step defined.
var ErrUnknownRef = errors.New("unknown ref")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits on the wall clock.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Runner plays scripts against one dispatcher.
type Runner struct {
	d     *toast.Dispatcher
	sleep SleepFunc
	log   zerolog.Logger
}

// NewRunner creates a Runner. A nil sleep uses Sleep.
func NewRunner(d *toast.Dispatcher, sleep SleepFunc) *Runner {
	if sleep == nil {
		sleep = Sleep
	}
	return &Runner{
		d:     d,
		sleep: sleep,
		log:   logging.Portal("demo", d.Name()),
	}
}

// Run executes every step of s in order. Refs are scoped to the script; Parse
// rejects dangling refs, and Run stops with ErrUnknownRef on scripts built
// without it.
func (r *Runner) Run(ctx context.Context, s Script) error {
	handles := map[string]*toast.Handle{}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case st.Notify != nil:
			v, _ := notice.ParseVariant(st.Notify.Variant)
			h := r.d.Notify(toast.Options{
				Title:       st.Notify.Title,
				Description: st.Notify.Description,
				Variant:     v,
				TTL:         st.Notify.TTL,
			})
			if st.Notify.Ref != "" {
				handles[st.Notify.Ref] = h
			}
		case st.Update != nil:
			h, ok := handles[st.Update.Ref]
			if !ok {
				return fmt.Errorf("%s step %d: %w %q", s.Name, i, ErrUnknownRef, st.Update.Ref)
			}
			h.Update(st.Update.patch())
		case st.Dismiss != "":
			h, ok := handles[st.Dismiss]
			if !ok {
				return fmt.Errorf("%s step %d: %w %q", s.Name, i, ErrUnknownRef, st.Dismiss)
			}
			h.Dismiss()
		case st.Wait > 0:
			if err := r.sleep(ctx, st.Wait); err != nil {
				return fmt.Errorf("%s step %d: %w", s.Name, i, err)
			}
		case st.Clear:
			r.d.Clear()
		}

		r.log.Debug().Str("script", s.Name).Int("step", i).Msg("step done")
	}

	return nil
}
