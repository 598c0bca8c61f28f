// Package demo parses and runs YAML notice scripts against a dispatcher.
//
// A script is a list of steps, each naming exactly one action:
//
//	- notify: {ref: save, title: Saved, variant: success, ttl: 3s}
//	- update: {ref: save, description: Synced to the cloud}
//	- dismiss: save
//	- wait: 6s
//	- clear: true
package demo

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

//go:embed default.yaml
var defaultScript []byte

// Step is one scripted action.
type Step struct {
	Notify  *NotifyStep   `yaml:"notify"`
	Update  *UpdateStep   `yaml:"update"`
	Dismiss string        `yaml:"dismiss"`
	Wait    time.Duration `yaml:"wait"`
	Clear   bool          `yaml:"clear"`
}

// NotifyStep creates a notice. Ref names it for later steps.
type NotifyStep struct {
	Ref         string        `yaml:"ref"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Variant     string        `yaml:"variant"`
	TTL         time.Duration `yaml:"ttl"`
}

// UpdateStep patches a notice created by an earlier notify step.
type UpdateStep struct {
	Ref         string  `yaml:"ref"`
	Title       *string `yaml:"title"`
	Description *string `yaml:"description"`
	Variant     *string `yaml:"variant"`
}

// Script is a parsed, validated list of steps.
type Script struct {
	Name  string
	Steps []Step
}

// Default returns the built-in script.
func Default() Script {
	s, err := Parse("default", bytes.NewReader(defaultScript))
	if err != nil {
		panic(fmt.Sprintf("demo: invalid built-in script: %v", err))
	}
	return s
}

// Parse decodes and validates a script.
func Parse(name string, r io.Reader) (Script, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("parse script %s: %w", name, err)
	}

	if err := validate(steps); err != nil {
		return Script{}, fmt.Errorf("invalid script %s: %w", name, err)
	}

	return Script{Name: name, Steps: steps}, nil
}

func validate(steps []Step) error {
	var errs criterio.FieldErrorsBuilder
	refs := map[string]bool{}

	for i, st := range steps {
		field := fmt.Sprintf("steps[%d]", i)

		if n := st.actions(); n != 1 {
			errs = errs.Append(field, fmt.Errorf("expected exactly one action, got %d", n))
			continue
		}

		switch {
		case st.Notify != nil:
			if st.Notify.Variant != "" {
				if _, err := notice.ParseVariant(st.Notify.Variant); err != nil {
					errs = errs.Append(field+".notify.variant", err)
				}
			}
			if ref := st.Notify.Ref; ref != "" {
				if refs[ref] {
					errs = errs.Append(field+".notify.ref", fmt.Errorf("duplicate ref %q", ref))
				}
				refs[ref] = true
			}
		case st.Update != nil:
			if !refs[st.Update.Ref] {
				errs = errs.Append(field+".update.ref", fmt.Errorf("unknown ref %q", st.Update.Ref))
			}
			if st.Update.Variant != nil {
				if _, err := notice.ParseVariant(*st.Update.Variant); err != nil {
					errs = errs.Append(field+".update.variant", err)
				}
			}
		case st.Dismiss != "":
			if !refs[st.Dismiss] {
				errs = errs.Append(field+".dismiss", fmt.Errorf("unknown ref %q", st.Dismiss))
			}
		case st.Wait < 0:
			errs = errs.Append(field+".wait", fmt.Errorf("must not be negative, got %s", st.Wait))
		}
	}

	return errs.ToError()
}

func (st Step) actions() int {
	n := 0
	if st.Notify != nil {
		n++
	}
	if st.Update != nil {
		n++
	}
	if st.Dismiss != "" {
		n++
	}
	if st.Wait != 0 {
		n++
	}
	if st.Clear {
		n++
	}
	return n
}

// patch converts the step into a notice patch. Variants were checked by Parse.
func (u UpdateStep) patch() notice.Patch {
	p := notice.Patch{Title: u.Title, Description: u.Description}
	if u.Variant != nil {
		v, _ := notice.ParseVariant(*u.Variant)
		p = p.WithVariant(v)
	}
	return p
}
