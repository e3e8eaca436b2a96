// Package apperrors defines the failure kinds surfaced by scaff so callers can
// branch on the kind of a failure instead of matching on its text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: a named snapshot, or the default snapshot, does not exist.
	KindNotFound
	// KindIOFailure: creating, reading or writing a directory or file failed.
	KindIOFailure
	// KindParseSkip: a file's syntax tree could not be obtained. Never fatal.
	KindParseSkip
	// KindUnsupportedLanguage: no mapping exists for the requested language.
	KindUnsupportedLanguage
	// KindMalformedSnapshot: a stored snapshot document could not be decoded.
	KindMalformedSnapshot
	// KindInvalidInput: a caller supplied an unusable argument.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindIOFailure:
		return "io failure"
	case KindParseSkip:
		return "parse skipped"
	case KindUnsupportedLanguage:
		return "unsupported language"
	case KindMalformedSnapshot:
		return "malformed snapshot"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error carries a failure kind plus the operation and path it happened on.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
	// Hint is a remediation message suitable for printing under the error.
	Hint string
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrIOFailure           = &Error{Kind: KindIOFailure}
	ErrParseSkip           = &Error{Kind: KindParseSkip}
	ErrUnsupportedLanguage = &Error{Kind: KindUnsupportedLanguage}
	ErrMalformedSnapshot   = &Error{Kind: KindMalformedSnapshot}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
)

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		if msg != "" {
			msg += " "
		}
		msg += e.Path
	}
	if e.Err != nil {
		if msg != "" {
			return msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	if msg == "" {
		return e.Kind.String()
	}
	return msg + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" || t.Path != "" || t.Err != nil {
		return e == t
	}
	return e.Kind == t.Kind
}

// WithHint returns e with its remediation hint set.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// NotFound reports that the thing named by what is absent.
func NotFound(op, what string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%s not found", what)}
}

// IOFailure wraps a filesystem error together with the path it concerns.
func IOFailure(op, path string, err error) *Error {
	return &Error{Kind: KindIOFailure, Op: op, Path: path, Err: err}
}

// ParseSkip marks a file whose syntax tree could not be obtained.
func ParseSkip(path string, err error) *Error {
	return &Error{Kind: KindParseSkip, Op: "parse", Path: path, Err: err}
}

// UnsupportedLanguage names the language that has no mapping for op.
func UnsupportedLanguage(op, language string) *Error {
	return &Error{Kind: KindUnsupportedLanguage, Op: op, Err: fmt.Errorf("unsupported language: %s", language)}
}

// MalformedSnapshot wraps the decode or schema error of a stored snapshot.
func MalformedSnapshot(path string, err error) *Error {
	return &Error{Kind: KindMalformedSnapshot, Op: "decode snapshot", Path: path, Err: err}
}

// MalformedConfig wraps the decode error of a store's config.json. It shares
// the MalformedSnapshot kind since the file lives beside the snapshots.
func MalformedConfig(path string, err error) *Error {
	return &Error{Kind: KindMalformedSnapshot, Op: "decode config", Path: path, Err: err,
		Hint: "Fix the file or run 'scaff default clear' to rewrite it."}
}

// InvalidInput reports an unusable argument.
func InvalidInput(op, reason string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: errors.New(reason)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HintOf returns the first non-empty hint in err's chain.
func HintOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Hint != "" {
			return e.Hint
		}
		err = e.Err
	}
	return ""
}
