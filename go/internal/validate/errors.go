package validate

import (
	"fmt"
	"sort"
	"strings"
)

// Errors accumulates field-scoped validation messages. Messages keep their
// append order per field so callers can surface them verbatim.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge appends every message from other, preserving order.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Any reports whether at least one message has been recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Error wraps accumulated validation messages as a recoverable error. The
// Fields map is the structured payload handed back to callers.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", f, strings.Join(e.Fields[f], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsError returns a *Error when errs holds any messages, else nil.
func AsError(errs Errors) error {
	if errs.Any() {
		return &Error{Fields: errs}
	}
	return nil
}

// TypeName names a value's concrete type the way service errors report it:
// "Pool" for *models.Pool, "nil" for a nil input.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	name := fmt.Sprintf("%T", v)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
