package common

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError is one rejected configuration field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s=%v %s", e.Field, e.Value, e.Message)
}

// ValidationRule checks one value and returns a message when it is rejected.
type ValidationRule func(value any) (string, bool)

// Validator collects field errors so all problems are reported at once.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Field applies rules to value in order, recording every failure.
func (v *Validator) Field(name string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if msg, ok := rule(value); !ok {
			v.errors = append(v.errors, ValidationError{Field: name, Value: value, Message: msg})
		}
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorMessage joins every failure with "; ".
func (v *Validator) ErrorMessage() string {
	parts := make([]string, len(v.errors))
	for i, e := range v.errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Required rejects nil and blank strings.
func Required(value any) (string, bool) {
	if value == nil {
		return "is required", false
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return "is required", false
	}
	return "", true
}

// Positive rejects zero and negative ints, int64s and durations.
func Positive(value any) (string, bool) {
	n, ok := asInt64(value)
	if !ok {
		return "must be numeric", false
	}
	if n <= 0 {
		return "must be positive", false
	}
	return "", true
}

// Between accepts integers in [lo, hi].
func Between(lo, hi int64) ValidationRule {
	return func(value any) (string, bool) {
		n, ok := asInt64(value)
		if !ok {
			return "must be numeric", false
		}
		if n < lo || n > hi {
			return fmt.Sprintf("must be between %d and %d", lo, hi), false
		}
		return "", true
	}
}

// OneOf accepts only the listed strings.
func OneOf(allowed ...string) ValidationRule {
	return func(value any) (string, bool) {
		s, _ := value.(string)
		for _, a := range allowed {
			if s == a {
				return "", true
			}
		}
		return "must be one of " + strings.Join(allowed, ", "), false
	}
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case time.Duration:
		return int64(v), true
	}
	return 0, false
}
