package notice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantDefault, false},
		{"default", VariantDefault, false},
		{" Destructive ", VariantDestructive, false},
		{"info", VariantInfo, false},
		{"success", VariantSuccess, false},
		{"WARNING", VariantWarning, false},
		{"fatal", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	v, ok := Normalize("")
	assert.True(t, ok)
	assert.Equal(t, VariantDefault, v)

	v, ok = Normalize(VariantSuccess)
	assert.True(t, ok)
	assert.Equal(t, VariantSuccess, v)

	v, ok = Normalize("sparkly")
	assert.False(t, ok)
	assert.Equal(t, VariantDefault, v)
}

func TestVariants_all_valid(t *testing.T) {
	for _, v := range Variants() {
		assert.True(t, v.Valid(), "variant %q", v)
	}
	assert.False(t, Variant("nope").Valid())
}

func TestPatch_Empty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	assert.False(t, Title("x").Empty())
	assert.False(t, Patch{}.WithDescription("d").Empty())
}
