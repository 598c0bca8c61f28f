package styles

import "github.com/mscartozzoni/noticeq/internal/core/notice"

// Notice icons, one per variant.
const (
	IconNoticeDefault     = "•"
	IconNoticeInfo        = "ℹ"
	IconNoticeSuccess     = "✓"
	IconNoticeWarning     = "⚠"
	IconNoticeDestructive = "✗"
)

// Icon returns the icon shown next to a notice of variant v.
func Icon(v notice.Variant) string {
	switch v {
	case notice.VariantInfo:
		return IconNoticeInfo
	case notice.VariantSuccess:
		return IconNoticeSuccess
	case notice.VariantWarning:
		return IconNoticeWarning
	case notice.VariantDestructive:
		return IconNoticeDestructive
	default:
		return IconNoticeDefault
	}
}
