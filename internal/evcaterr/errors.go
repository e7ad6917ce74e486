// Package evcaterr defines the catalog's typed error taxonomy.
//
// Every user-visible failure coming out of the core is an *Error with one
// of the Kind values below. Errors chain via Unwrap so callers can use the
// standard errors.Is/errors.As, and carry free-form Context for messages
// that need to quote the offending expression or schema.
package evcaterr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// InvalidArgument means an expression failed to normalize, validate,
	// or resolve, or a predicate's operand types were incompatible.
	InvalidArgument Kind = iota
	// UnsupportedVersion means a synopsis's version predates the minimum
	// supported partition version at Start.
	UnsupportedVersion
	// LookupError means a GetByUUID/Erase request named an unknown uuid.
	LookupError
	// LogicError means a concurrent duplicate Get on the same streaming lookup.
	LogicError
	// InternalInvariant means the code reached a path that should be unreachable.
	InternalInvariant
)

// String renders the kind for log lines and error messages.
func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case UnsupportedVersion:
		return "unsupported_version"
	case LookupError:
		return "lookup_error"
	case LogicError:
		return "logic_error"
	case InternalInvariant:
		return "internal_invariant"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every public operation in this module.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	cause   error
}

// New creates an Error with no cause. kv must be an even-length list of
// alternating keys and values, merged into Context.
func New(kind Kind, msg string, kv ...any) *Error {
	return &Error{Kind: kind, Message: msg, Context: kvToMap(kv)}
}

// Wrap creates an Error chained to cause via errors.Wrap, preserving a stack
// trace the way the rest of the pkg/errors-using corpus does.
func Wrap(kind Kind, cause error, msg string, kv ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: msg,
		Context: kvToMap(kv),
		cause:   errors.Wrap(cause, msg),
	}
}

func kvToMap(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		m[key] = kv[i+1]
	}
	return m
}

// Error renders a human-readable message, quoting context key/values.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		b.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s=%v", k, v)
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause chain to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
