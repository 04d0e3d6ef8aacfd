package music

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced at the operation boundary.
type Kind string

const (
	KindTagRead      Kind = "TagReadError"
	KindTagWrite     Kind = "TagWriteError"
	KindArtworkFetch Kind = "ArtworkFetchError"
	KindInvalid      Kind = "InvalidArgument"
)

// Error is returned by tag and artwork operations.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind. An err that is already an *Error is returned
// as is so the innermost classification wins.
func NewError(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns a short, caller-facing message for a kind.
func (k Kind) Message() string {
	switch k {
	case KindTagRead:
		return "An error occurred while reading metadata"
	case KindTagWrite:
		return "An error occurred while editing metadata"
	case KindArtworkFetch:
		return "An error occurred while fetching artwork"
	case KindInvalid:
		return "Invalid argument"
	default:
		return "Unexpected error"
	}
}
