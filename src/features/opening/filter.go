package opening

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contre95/lxbridge/src/music"
)

var (
	// ErrMalformedMimeType is returned when a data type rule cannot be parsed.
	ErrMalformedMimeType = errors.New("malformed mime type")

	ErrActionMismatch = errors.New("action not handled")
	ErrSchemeMismatch = errors.New("scheme not handled")
	ErrTypeMismatch   = errors.New("mime type not handled")
)

type dataType struct {
	base string
	sub  string
}

func (d dataType) matches(base, sub string) bool {
	if d.base != "*" && d.base != base {
		return false
	}
	return d.sub == "*" || d.sub == sub
}

// Filter decides which incoming intents the app handles. Categories are kept
// for reference only and never reject an intent.
type Filter struct {
	actions    map[string]struct{}
	schemes    map[string]struct{}
	categories map[string]struct{}
	types      []dataType
}

// NewFilter creates an empty filter.
func NewFilter() *Filter {
	return &Filter{
		actions:    make(map[string]struct{}),
		schemes:    make(map[string]struct{}),
		categories: make(map[string]struct{}),
	}
}

// NewAudioFilter returns the filter for "open audio file" intents. Rules that
// fail to parse are logged and left out.
func NewAudioFilter() *Filter {
	f := NewFilter()
	f.AddAction(ActionView)
	f.AddCategory(CategoryDefault)
	f.AddCategory(CategoryAppMusic)
	f.AddScheme(SchemeContent)
	f.AddScheme(SchemeFile)
	for _, t := range []string{"audio/*", "application/ogg", "application/x-ogg", "application/itunes"} {
		if err := f.AddDataType(t); err != nil {
			slog.Error("Skipping intent filter data type", "type", t, "error", err)
		}
	}
	return f
}

func (f *Filter) AddAction(action string) {
	f.actions[action] = struct{}{}
}

func (f *Filter) AddScheme(scheme string) {
	f.schemes[strings.ToLower(scheme)] = struct{}{}
}

func (f *Filter) AddCategory(category string) {
	f.categories[category] = struct{}{}
}

// AddDataType adds a type/subtype rule. The subtype may be "*".
func (f *Filter) AddDataType(t string) error {
	d, err := parseMimeType(t)
	if err != nil {
		return err
	}
	f.types = append(f.types, d)
	return nil
}

// Match reports whether the intent is one the filter handles.
func (f *Filter) Match(in Intent) bool {
	return f.Check(in) == nil
}

// Check is Match with the reason for a rejection.
func (f *Filter) Check(in Intent) error {
	if _, ok := f.actions[in.Action]; !ok {
		return fmt.Errorf("%w: %q", ErrActionMismatch, in.Action)
	}
	scheme := in.Scheme()
	if _, ok := f.schemes[scheme]; !ok {
		return fmt.Errorf("%w: %q", ErrSchemeMismatch, scheme)
	}

	declared := strings.TrimSpace(in.MimeType)
	if declared == "" {
		declared = music.AudioMimeType(in.lastSegment())
	}
	// The data type is only enforced when one is known.
	if declared == "" || len(f.types) == 0 {
		return nil
	}
	d, err := parseMimeType(declared)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	for _, rule := range f.types {
		if rule.matches(d.base, d.sub) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrTypeMismatch, declared)
}

func parseMimeType(t string) (dataType, error) {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	base, sub, ok := strings.Cut(t, "/")
	if !ok || base == "" || sub == "" || strings.ContainsAny(t, " \t") || strings.Contains(sub, "/") {
		return dataType{}, fmt.Errorf("%w: %q", ErrMalformedMimeType, t)
	}
	if base == "*" && sub != "*" {
		return dataType{}, fmt.Errorf("%w: %q", ErrMalformedMimeType, t)
	}
	return dataType{base: base, sub: sub}, nil
}
