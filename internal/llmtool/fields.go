package llmtool

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldOptions controls how struct fields map to PromptField.
type FieldOptions struct {
	NameTag     string
	DescTag     string
	TypeTag     string
	PromptTag   string
	ValidateTag string
}

// DefaultFieldOptions returns the standard tag mapping.
func DefaultFieldOptions() FieldOptions {
	return FieldOptions{
		NameTag:     "json",
		DescTag:     "prompt_desc",
		TypeTag:     "prompt_type",
		PromptTag:   "prompt",
		ValidateTag: "validate",
	}
}

// FieldsFromStruct builds prompt fields from a Go struct using tags.
// Slices of structs are flattened as "parent[].child" entries so the model
// sees the shape of every nested object.
func FieldsFromStruct(v any, opts ...FieldOptions) ([]PromptField, error) {
	if v == nil {
		return nil, fmt.Errorf("llmtool: struct is nil")
	}
	cfg := DefaultFieldOptions()
	if len(opts) > 0 {
		cfg = opts[0]
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("llmtool: expected struct, got %s", t.Kind())
	}
	return collectFields(t, "", cfg), nil
}

// MustFieldsFromStruct panics on error; useful for prompt spec literals.
func MustFieldsFromStruct(v any, opts ...FieldOptions) []PromptField {
	fields, err := FieldsFromStruct(v, opts...)
	if err != nil {
		panic(err)
	}
	return fields
}

func collectFields(t reflect.Type, prefix string, cfg FieldOptions) []PromptField {
	fields := make([]PromptField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || shouldSkipField(f, cfg.PromptTag) {
			continue
		}
		name := fieldName(f, cfg.NameTag)
		if name == "" {
			continue
		}
		rules := parseRules(f.Tag.Get(cfg.ValidateTag))
		fields = append(fields, PromptField{
			Name:        prefix + name,
			Type:        fieldType(f, cfg.TypeTag),
			Required:    isRequired(f, cfg.PromptTag, rules),
			Description: strings.TrimSpace(f.Tag.Get(cfg.DescTag)),
			Hint:        ruleHint(rules),
		})
		if elem := structElem(f.Type); elem != nil {
			fields = append(fields, collectFields(elem, prefix+name+"[].", cfg)...)
		}
	}
	return fields
}

// structElem returns the element struct type of a slice/array field.
func structElem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil
	}
	e := t.Elem()
	for e.Kind() == reflect.Pointer {
		e = e.Elem()
	}
	if e.Kind() != reflect.Struct {
		return nil
	}
	return e
}

func shouldSkipField(f reflect.StructField, promptTag string) bool {
	for _, part := range tagParts(f.Tag.Get(promptTag)) {
		if part == "-" || part == "omit" {
			return true
		}
	}
	return false
}

// isRequired honours an explicit prompt:"required"/"optional" tag and
// otherwise treats every field as required unless it is validated with
// omitempty. Models get a complete object either way.
func isRequired(f reflect.StructField, promptTag string, rules map[string]string) bool {
	for _, part := range tagParts(f.Tag.Get(promptTag)) {
		switch part {
		case "required":
			return true
		case "optional":
			return false
		}
	}
	_, omit := rules["omitempty"]
	return !omit
}

func tagParts(tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseRules splits a validate tag into rule -> param. Rules after "dive"
// apply to elements and are ignored. Params of "a|b" alternatives sharing
// a rule are joined with "|".
func parseRules(tag string) map[string]string {
	out := map[string]string{}
	for _, part := range tagParts(tag) {
		if part == "dive" {
			break
		}
		for _, alt := range strings.Split(part, "|") {
			k, v, _ := strings.Cut(alt, "=")
			if prev, ok := out[k]; ok && prev != "" {
				v = prev + "|" + v
			}
			out[k] = v
		}
	}
	return out
}

func ruleHint(rules map[string]string) string {
	var hints []string
	if v, ok := rules["oneof"]; ok {
		hints = append(hints, "one of: "+strings.Join(strings.Fields(v), ", "))
	}
	lo, hasLo := firstRule(rules, "min", "gte")
	hi, hasHi := firstRule(rules, "max", "lte")
	switch {
	case hasLo && hasHi:
		hints = append(hints, fmt.Sprintf("range %s-%s", lo, hi))
	case hasLo:
		hints = append(hints, "min "+lo)
	case hasHi:
		hints = append(hints, "max "+hi)
	}
	if v, ok := rules["startswith"]; ok {
		var prefixes []string
		for _, p := range strings.Split(v, "|") {
			prefixes = append(prefixes, fmt.Sprintf("%q", p))
		}
		hints = append(hints, "must start with "+strings.Join(prefixes, " or "))
	}
	if v, ok := rules["datetime"]; ok && v == "2006-01-02" {
		hints = append(hints, "format YYYY-MM-DD")
	}
	return strings.Join(hints, "; ")
}

func firstRule(rules map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := rules[k]; ok {
			return v, true
		}
	}
	return "", false
}

func fieldName(f reflect.StructField, nameTag string) string {
	tag := strings.TrimSpace(f.Tag.Get(nameTag))
	if tag != "" {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return toSnake(f.Name)
}

func fieldType(f reflect.StructField, typeTag string) string {
	tag := strings.TrimSpace(f.Tag.Get(typeTag))
	if tag != "" {
		return tag
	}
	return typeString(f.Type)
}

func typeString(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "[]" + typeString(t.Elem())
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", typeString(t.Key()), typeString(t.Elem()))
	case reflect.Struct:
		return "object"
	case reflect.Interface:
		return "any"
	default:
		return t.Kind().String()
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(s[i-1])
			next := rune(0)
			if i+1 < len(s) {
				next = rune(s[i+1])
			}
			if prev >= 'a' && prev <= 'z' || (next >= 'a' && next <= 'z') {
				b.WriteByte('_')
			}
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
