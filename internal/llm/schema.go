package llm

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	genai "google.golang.org/genai"
)

var schemaCache sync.Map // reflect.Type -> *genai.Schema

// SchemaFor derives a Gemini response schema from a Go struct. It reads the
// json, prompt_desc and validate tags. Results are cached per type and
// must not be mutated by callers.
func SchemaFor(v any) *genai.Schema {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if s, ok := schemaCache.Load(t); ok {
		return s.(*genai.Schema)
	}
	s := schemaOf(t, "", "")
	schemaCache.Store(t, s)
	return s
}

func schemaOf(t reflect.Type, desc, validate string) *genai.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	rules, elemRules := splitRules(validate)
	s := &genai.Schema{Description: desc}

	switch t.Kind() {
	case reflect.Struct:
		s.Type = genai.TypeObject
		s.Properties = map[string]*genai.Schema{}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, omit := jsonName(f)
			if name == "" {
				continue
			}
			fv := f.Tag.Get("validate")
			s.Properties[name] = schemaOf(f.Type, f.Tag.Get("prompt_desc"), fv)
			s.PropertyOrdering = append(s.PropertyOrdering, name)
			if !omit && !hasRule(fv, "omitempty") {
				s.Required = append(s.Required, name)
			}
		}
	case reflect.Slice, reflect.Array:
		s.Type = genai.TypeArray
		s.Items = schemaOf(t.Elem(), "", elemRules)
		if v, ok := rules["min"]; ok {
			s.MinItems = parseInt(v)
		}
		if v, ok := rules["max"]; ok {
			s.MaxItems = parseInt(v)
		}
	case reflect.String:
		s.Type = genai.TypeString
		if v, ok := rules["oneof"]; ok {
			s.Enum = strings.Fields(v)
			s.Format = "enum"
		}
		if v, ok := rules["min"]; ok {
			s.MinLength = parseInt(v)
		}
		if v, ok := rules["max"]; ok {
			s.MaxLength = parseInt(v)
		}
	case reflect.Bool:
		s.Type = genai.TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.Type = genai.TypeInteger
		s.Minimum, s.Maximum = bounds(rules)
	case reflect.Float32, reflect.Float64:
		s.Type = genai.TypeNumber
		s.Minimum, s.Maximum = bounds(rules)
	default:
		s.Type = genai.TypeString
	}
	return s
}

func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty")
}

// splitRules separates a validate tag into the field's own rules and the
// rules that follow "dive" (applied to slice elements).
func splitRules(tag string) (map[string]string, string) {
	own := map[string]string{}
	if tag == "" {
		return own, ""
	}
	head, tail, _ := strings.Cut(tag, "dive")
	for _, part := range strings.Split(head, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		own[k] = v
	}
	return own, strings.Trim(tail, ", ")
}

func hasRule(tag, rule string) bool {
	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == rule {
			return true
		}
	}
	return false
}

func bounds(rules map[string]string) (lo, hi *float64) {
	for _, k := range []string{"gte", "min"} {
		if v, ok := rules[k]; ok {
			lo = parseFloat(v)
			break
		}
	}
	for _, k := range []string{"lte", "max"} {
		if v, ok := rules[k]; ok {
			hi = parseFloat(v)
			break
		}
	}
	return lo, hi
}

func parseInt(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
