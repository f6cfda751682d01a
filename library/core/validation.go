package core

import (
	"sort"
	"strings"
	"time"
)

// ValidationError carries the field-level failures detected by an aggregate
// factory. It is an expected outcome, returned, never panicked.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// validator accumulates field-level validation errors; the first failure
// reported for a field wins.
type validator struct {
	fields map[string]string
}

func newValidator() *validator {
	return &validator{fields: make(map[string]string)}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		if _, exists := v.fields[field]; !exists {
			v.fields[field] = message
		}
	}
}

func (v *validator) valid() bool {
	return len(v.fields) == 0
}

func (v *validator) err() *ValidationError {
	return &ValidationError{Fields: v.fields}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp. It backs
// the date validation of the aggregate factories and is exported for the
// services that accept date fields on their partial-update inputs.
func ParseDate(value string) (time.Time, bool) {
	return parseDate(value)
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
