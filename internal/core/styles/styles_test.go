package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

func TestThemeNames_sorted(t *testing.T) {
	names := ThemeNames()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestUseTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	assert.False(t, UseTheme("nope"))
	assert.Equal(t, themes[DefaultTheme], CurrentPalette)

	require.True(t, UseTheme("gruvbox"))
	assert.Equal(t, themes["gruvbox"], CurrentPalette)
	assert.Equal(t, themes["gruvbox"].Error, ToastDestructiveStyle.GetBorderTopForeground())
}

func TestIcon_everyVariantDistinct(t *testing.T) {
	seen := map[string]notice.Variant{}
	for _, v := range notice.Variants() {
		icon := Icon(v)
		require.NotEmpty(t, icon)
		prev, dup := seen[icon]
		assert.False(t, dup, "variants %s and %s share icon %q", prev, v, icon)
		seen[icon] = v
	}
	assert.Equal(t, IconNoticeDefault, Icon("bogus"))
}
