// Package jsonutil holds the JSON helpers shared by prompt rendering and
// oracle decoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrUndecodable is returned when a payload is not JSON even after
// unwrapping a quoted document.
var ErrUndecodable = errors.New("jsonutil: cannot parse JSON payload")

// MarshalIndent encodes v like json.MarshalIndent but leaves <, > and &
// as they are, so "Bosnia & Herzegovina" reaches the model verbatim.
func MarshalIndent(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex decodes raw into v. When the direct decode fails it
// retries after unwrapping a document quoted as a JSON string and resolving
// double-escaped unicode inside it.
func UnmarshalFlex(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	norm, nerr := normalize(raw)
	if nerr != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

func normalize(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	// Up to two levels of quoting.
	for i := 0; i < 2; i++ {
		s, ok := doc.(string)
		if !ok {
			break
		}
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, ErrUndecodable
		}
	}
	if _, ok := doc.(string); ok {
		return nil, ErrUndecodable
	}
	return MarshalIndent(unescapeAll(doc), "")
}

func unescapeAll(v any) any {
	switch x := v.(type) {
	case string:
		return unescapeString(x)
	case []any:
		for i := range x {
			x[i] = unescapeAll(x[i])
		}
		return x
	case map[string]any:
		for k, vv := range x {
			x[k] = unescapeAll(vv)
		}
		return x
	default:
		return v
	}
}

// unescapeString resolves literal \uXXXX sequences left inside a decoded
// string. Strings without them are returned unchanged.
func unescapeString(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	var out string
	if err := json.Unmarshal([]byte(quoted), &out); err != nil {
		return s
	}
	return out
}
