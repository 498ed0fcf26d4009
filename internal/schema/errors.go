package schema

import (
	"errors"
	"strings"
)

// FieldError names one offending field and the violated constraint.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
	Message    string `json:"message"`
}

// ValidationError is the structured failure returned by Validate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "schema: validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "schema: " + strings.Join(msgs, "; ")
}

// Field returns the first failure recorded for name.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	if e == nil {
		return FieldError{}, false
	}
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// AsValidation unwraps err into a *ValidationError when it carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
