// Package ui holds the per-session view state behind the HTTP surface:
// loading flags, last results, chat history, the document list and the
// translator status machine. Every view is safe for concurrent use.
package ui

import (
	"errors"
	"strings"

	"wandergenie/internal/flow"
	"wandergenie/internal/schema"
)

var (
	ErrBusy              = errors.New("ui: a request is already in flight")
	ErrNotFound          = errors.New("ui: not found")
	ErrInvalidTransition = errors.New("ui: action not allowed in current status")
	ErrUnknownLanguage   = errors.New("ui: unsupported target language")
	ErrClosed            = errors.New("ui: view closed")
)

// GenericFailure is shown when a failure has no more specific wording.
const GenericFailure = "Something went wrong. Please try again."

// Notice is a user-facing error notification.
type Notice struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Fields      []schema.FieldError `json:"fields,omitempty"`
}

// NoticeFor phrases err for the user. Field-level problems are listed;
// named stage failures keep their own wording; anything else is generic.
func NoticeFor(title string, err error) *Notice {
	n := &Notice{Title: title, Description: GenericFailure}
	if verr, ok := schema.AsValidation(err); ok && !errors.Is(err, flow.ErrInvalidOutput) {
		n.Fields = verr.Fields
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			msgs = append(msgs, f.Message)
		}
		n.Description = "Please fix the following: " + strings.Join(msgs, "; ") + "."
		return n
	}
	for _, stage := range []error{flow.ErrTranscriptionFailed, flow.ErrTranslationFailed, flow.ErrSpeechFailed} {
		if errors.Is(err, stage) {
			n.Description = sentence(strings.TrimPrefix(stage.Error(), "flow: "))
			return n
		}
	}
	return n
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
