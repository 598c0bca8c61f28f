package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_allActions(t *testing.T) {
	s, err := Parse("t", strings.NewReader(`
- notify: {ref: a, title: Saved, variant: Success, ttl: 3s}
- update: {ref: a, description: synced}
- dismiss: a
- wait: 500ms
- clear: true
`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 5)

	assert.Equal(t, "Saved", s.Steps[0].Notify.Title)
	assert.Equal(t, 3*time.Second, s.Steps[0].Notify.TTL)
	assert.Equal(t, "synced", *s.Steps[1].Update.Description)
	assert.Nil(t, s.Steps[1].Update.Title)
	assert.Equal(t, "a", s.Steps[2].Dismiss)
	assert.Equal(t, 500*time.Millisecond, s.Steps[3].Wait)
	assert.True(t, s.Steps[4].Clear)
}

func TestParse_empty(t *testing.T) {
	s, err := Parse("empty", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.Steps)
}

func TestParse_validationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"unknown variant", `- notify: {variant: loud}`, "steps[0].notify.variant"},
		{"duplicate ref", "- notify: {ref: a}\n- notify: {ref: a}", "steps[1].notify.ref"},
		{"update before notify", `- update: {ref: a, title: x}`, "steps[0].update.ref"},
		{"dismiss unknown", `- dismiss: nope`, "steps[0].dismiss"},
		{"two actions", `- {clear: true, wait: 1s}`, "steps[0]"},
		{"no action", `- {}`, "steps[0]"},
		{"negative wait", `- wait: -1s`, "steps[0].wait"},
		{"bad update variant", "- notify: {ref: a}\n- update: {ref: a, variant: loud}", "steps[1].update.variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("t", strings.NewReader(tt.input))
			require.Error(t, err)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestParse_malformedYAML(t *testing.T) {
	_, err := Parse("bad", strings.NewReader("notify: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse script bad")
}

func TestDefault_isValid(t *testing.T) {
	s := Default()
	assert.Equal(t, "default", s.Name)
	assert.NotEmpty(t, s.Steps)
}
