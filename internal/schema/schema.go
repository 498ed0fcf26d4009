// Package schema validates request and response value objects against the
// constraints declared in their struct tags.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Normalizer is implemented by values that trim or default their fields
// before validation.
type Normalizer interface {
	Normalize()
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		// notblank rejects whitespace-only strings, which required lets through.
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		instance = v
	})
	return instance
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Validate normalizes v (when it implements Normalizer) and checks it.
// v must be a pointer to a struct for normalization to stick.
// A constraint violation is returned as *ValidationError.
func Validate(v any) error {
	if v == nil {
		return fmt.Errorf("schema: nil value")
	}
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidator(verrs)
	}
	return fmt.Errorf("schema: %w", err)
}

func fromValidator(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out.Fields = append(out.Fields, FieldError{
			Field:      field,
			Constraint: fe.Tag(),
			Param:      fe.Param(),
			Message:    describe(field, fe.Tag(), fe.Param(), fe.Kind()),
		})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace:
// "ItineraryResponse.itinerary[0].date" becomes "itinerary[0].date".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(field, tag, param string, kind reflect.Kind) string {
	if strings.Contains(tag, "|") {
		return describeAny(field, tag)
	}
	textual := kind == reflect.String
	collection := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map
	switch tag {
	case "required", "notblank":
		return field + " is required"
	case "min":
		switch {
		case textual:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case collection:
			return fmt.Sprintf("%s must contain at least %s items", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		switch {
		case textual:
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case collection:
			return fmt.Sprintf("%s must contain at most %s items", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(strings.Fields(param), ", "))
	case "url":
		return field + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, param)
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", field, dateLayoutLabel(param))
	case "datauri":
		return field + " must be a data URI (data:<mimetype>;base64,<data>)"
	default:
		if param != "" {
			return fmt.Sprintf("%s failed %s=%s", field, tag, param)
		}
		return fmt.Sprintf("%s failed %s", field, tag)
	}
}

// describeAny phrases a failed "a|b" rule. Only prefix alternatives get
// specific wording.
func describeAny(field, tag string) string {
	var prefixes []string
	for _, alt := range strings.Split(tag, "|") {
		k, v, _ := strings.Cut(alt, "=")
		if k != "startswith" {
			return fmt.Sprintf("%s failed %s", field, tag)
		}
		prefixes = append(prefixes, fmt.Sprintf("%q", v))
	}
	return fmt.Sprintf("%s must start with %s", field, strings.Join(prefixes, " or "))
}

func dateLayoutLabel(layout string) string {
	if layout == "2006-01-02" {
		return "YYYY-MM-DD"
	}
	return layout
}
