package portal

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/toast"
	"github.com/mscartozzoni/noticeq/internal/toast/toasttest"
)

type recorded struct {
	portal string
	n      notice.Notice
}

type sliceRecorder struct {
	items []recorded
}

func (r *sliceRecorder) Record(_ context.Context, portal string, n notice.Notice) error {
	r.items = append(r.items, recorded{portal: portal, n: n})
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Portals[config.PortalPatient] = config.Profile{Capacity: toast.CompactCapacity, GraceDelay: toast.ExtendedGraceDelay}
	cfg.Portals[config.PortalFinancial] = config.Profile{DefaultTTL: 8 * time.Second}
	return &cfg
}

func newTestHub(t *testing.T, opts Options) *Hub {
	t.Helper()
	nop := zerolog.Nop()
	if opts.Logger == nil {
		opts.Logger = &nop
	}
	h := NewHub(testConfig(), opts)
	t.Cleanup(h.Close)
	return h
}

func TestNewHub_creates_dispatcher_per_portal(t *testing.T) {
	h := newTestHub(t, Options{})

	assert.Equal(t, []string{"budgeting", "doctor", "financial", "inbox", "patient", "secretary"}, h.Names())

	patient, ok := h.Get(config.PortalPatient)
	require.True(t, ok)
	assert.Equal(t, 1, patient.Capacity())
	assert.Equal(t, toast.ExtendedGraceDelay, patient.GraceDelay())
	assert.Equal(t, "patient", patient.Name())

	doctor, ok := h.Get(config.PortalDoctor)
	require.True(t, ok)
	assert.Equal(t, toast.DefaultCapacity, doctor.Capacity())
	assert.Equal(t, toast.DefaultGraceDelay, doctor.GraceDelay())
}

func TestHub_portals_are_independent(t *testing.T) {
	h := newTestHub(t, Options{})
	patient, _ := h.Get(config.PortalPatient)
	doctor, _ := h.Get(config.PortalDoctor)

	patient.Notify(toast.Options{Title: "A"})
	patient.Notify(toast.Options{Title: "B"})
	doctor.Notify(toast.Options{Title: "C"})

	assert.Equal(t, 1, patient.State().Len())
	assert.Equal(t, 1, doctor.State().Len())
}

func TestHub_portal_default_ttl(t *testing.T) {
	clock := toasttest.NewClock()
	h := newTestHub(t, Options{Clock: clock})
	fin, _ := h.Get(config.PortalFinancial)

	handle := fin.Notify(toast.Options{Title: "Pagamento recebido"})
	clock.Advance(8 * time.Second)

	n, ok := handle.Notice()
	require.True(t, ok)
	assert.False(t, n.Visible)
}

func TestHub_shares_recorder(t *testing.T) {
	rec := &sliceRecorder{}
	h := newTestHub(t, Options{Recorder: rec})

	for _, name := range []string{config.PortalInbox, config.PortalBudgeting} {
		d, _ := h.Get(name)
		d.Infof("hello %s", name)
	}

	require.Len(t, rec.items, 2)
	assert.Equal(t, "inbox", rec.items[0].portal)
	assert.Equal(t, "budgeting", rec.items[1].portal)
}

func TestHub_Lookup_unknown(t *testing.T) {
	h := newTestHub(t, Options{})

	_, err := h.Lookup("pharmacy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pharmacy")
	assert.Contains(t, err.Error(), "patient")
}

func TestHub_Context(t *testing.T) {
	h := newTestHub(t, Options{})

	ctx, err := h.Context(context.Background(), config.PortalSecretary)
	require.NoError(t, err)
	assert.Equal(t, "secretary", toast.MustFromContext(ctx).Name())

	_, err = h.Context(context.Background(), "nope")
	assert.Error(t, err)
}

func TestHub_ClearAll(t *testing.T) {
	h := newTestHub(t, Options{})
	for _, name := range h.Names() {
		d, _ := h.Get(name)
		d.Notify(toast.Options{Title: "x"})
	}

	h.ClearAll()

	for _, name := range h.Names() {
		d, _ := h.Get(name)
		assert.Equal(t, 0, d.State().Len(), name)
	}
}

func TestHub_Close(t *testing.T) {
	h := newTestHub(t, Options{})
	d, _ := h.Get(config.PortalDoctor)

	h.Close()
	h.Close()

	_, ok := h.Get(config.PortalDoctor)
	assert.False(t, ok)
	assert.PanicsWithValue(t, toast.ErrClosed, func() { d.Notify(toast.Options{}) })
}
