// Package notice defines the notice entity and the pure queue transitions
// applied to a collection of notices.
package notice

import (
	"fmt"
	"strings"
	"time"
)

// Variant is the severity/style tag of a notice.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantInfo        Variant = "info"
	VariantSuccess     Variant = "success"
	VariantWarning     Variant = "warning"
	VariantDestructive Variant = "destructive"
)

// Variants returns every recognized variant in display order.
func Variants() []Variant {
	return []Variant{VariantDefault, VariantInfo, VariantSuccess, VariantWarning, VariantDestructive}
}

// Valid reports whether v is a recognized variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantDefault, VariantInfo, VariantSuccess, VariantWarning, VariantDestructive:
		return true
	}
	return false
}

// Normalize returns v when it is recognized, VariantDefault otherwise.
// The empty variant is treated as VariantDefault without being reported.
func Normalize(v Variant) (Variant, bool) {
	if v == "" {
		return VariantDefault, true
	}
	if v.Valid() {
		return v, true
	}
	return VariantDefault, false
}

// ParseVariant parses user supplied text (CLI flags, config, scripts).
// Unknown values are rejected.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return VariantDefault, nil
	}
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown variant %q", s)
	}
	return v, nil
}

// Notice is a single user-facing message.
type Notice struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	Visible     bool
	CreatedAt   time.Time

	// TTL is the auto-dismiss duration the notice was created with.
	// Zero means the notice stays until dismissed.
	TTL time.Duration
}

// Patch holds the display fields of an update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Variant     *Variant
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Variant == nil
}

// Title returns a patch that sets the title.
func Title(s string) Patch { return Patch{Title: &s} }

// Description returns a patch that sets the description.
func Description(s string) Patch { return Patch{Description: &s} }

// WithVariant returns a copy of p that also sets the variant.
func (p Patch) WithVariant(v Variant) Patch {
	p.Variant = &v
	return p
}

// WithDescription returns a copy of p that also sets the description.
func (p Patch) WithDescription(s string) Patch {
	p.Description = &s
	return p
}

func (n Notice) merge(p Patch) (Notice, bool) {
	changed := false
	if p.Title != nil && *p.Title != n.Title {
		n.Title = *p.Title
		changed = true
	}
	if p.Description != nil && *p.Description != n.Description {
		n.Description = *p.Description
		changed = true
	}
	if p.Variant != nil && *p.Variant != n.Variant {
		n.Variant = *p.Variant
		changed = true
	}
	return n, changed
}
