package llm

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

var reDataURL = regexp.MustCompile(`(?is)\bdata:((?:image|video|audio)/[a-z0-9+.;=-]+);base64,[a-z0-9+/=\r\n]+`)

// RedactMedia walks any JSON-like value and replaces media payloads with a marker.
func RedactMedia(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = RedactMedia(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = RedactMedia(vv)
		}
		return out
	case string:
		if reDataURL.MatchString(x) || looksLikeBase64(x) {
			return RedactText(x)
		}
		return x
	case []Media:
		return describeMedia(x)
	default:
		return v
	}
}

// RedactText replaces every embedded data URL with its MIME type and size.
func RedactText(s string) string {
	if !reDataURL.MatchString(s) {
		if looksLikeBase64(s) {
			return fmt.Sprintf("[REDACTED base64 %d chars]", len(s))
		}
		return s
	}
	return reDataURL.ReplaceAllStringFunc(s, func(m string) string {
		sub := reDataURL.FindStringSubmatch(m)
		return fmt.Sprintf("[REDACTED %s %d chars]", sub[1], len(m))
	})
}

func describeMedia(media []Media) []string {
	out := make([]string, 0, len(media))
	for _, m := range media {
		out = append(out, fmt.Sprintf("%s (%d bytes)", m.MIMEType, len(m.Data)))
	}
	return out
}

func looksLikeBase64(s string) bool {
	if len(s) < 512 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
