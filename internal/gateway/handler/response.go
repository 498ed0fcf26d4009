package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"wandergenie/internal/flow"
	"wandergenie/internal/gateway/session"
	"wandergenie/internal/llm"
	"wandergenie/internal/schema"
	"wandergenie/internal/ui"
)

// Envelope codes.
const (
	CodeOK             = "OK"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotFound       = "NOT_FOUND"
	CodeBusy           = "BUSY"
	CodeUnavailable    = "UNAVAILABLE"
	CodeUpstreamFailed = "UPSTREAM_FAILED"
	CodeInternal       = "INTERNAL_ERROR"
)

// maxBodyBytes leaves room for a base64 recording of a few minutes.
const maxBodyBytes = 16 << 20

var (
	errBadBody         = errors.New("handler: request body is not valid JSON")
	errSessionNotFound = errors.New("handler: session not found")
)

type Envelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Fields  []schema.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Code: CodeOK, Data: data})
}

// fail writes err as an envelope. data, when given, is the view state
// after the failure so clients can render the notice.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, data any) {
	status, env := classify(err)
	env.Data = data
	entry := h.log.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
		"code":   env.Code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Warn("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeJSON(w, status, env)
}

func classify(err error) (int, Envelope) {
	if verr, ok := schema.AsValidation(err); ok && !errors.Is(err, flow.ErrInvalidOutput) {
		return http.StatusBadRequest, Envelope{
			Code:    CodeInvalidInput,
			Message: ui.NoticeFor("", err).Description,
			Fields:  verr.Fields,
		}
	}
	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, Envelope{Code: CodeInvalidInput, Message: "Request body must be valid JSON."}
	case errors.Is(err, ui.ErrUnknownLanguage):
		return http.StatusBadRequest, Envelope{Code: CodeInvalidInput, Message: "Unsupported target language."}
	case errors.Is(err, flow.ErrInvalidInput):
		return http.StatusBadRequest, Envelope{Code: CodeInvalidInput, Message: "The request is invalid."}
	case errors.Is(err, errSessionNotFound), errors.Is(err, ui.ErrClosed):
		return http.StatusNotFound, Envelope{Code: CodeNotFound, Message: "Session not found or expired."}
	case errors.Is(err, ui.ErrNotFound):
		return http.StatusNotFound, Envelope{Code: CodeNotFound, Message: "Not found."}
	case errors.Is(err, ui.ErrBusy):
		return http.StatusConflict, Envelope{Code: CodeBusy, Message: "A request is already in progress."}
	case errors.Is(err, ui.ErrInvalidTransition):
		return http.StatusConflict, Envelope{Code: CodeBusy, Message: "That action is not available right now."}
	case errors.Is(err, llm.ErrCircuitOpen),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, Envelope{Code: CodeUnavailable, Message: "The assistant is temporarily unavailable. Please try again shortly."}
	case errors.Is(err, flow.ErrTranscriptionFailed),
		errors.Is(err, flow.ErrTranslationFailed),
		errors.Is(err, flow.ErrSpeechFailed),
		errors.Is(err, flow.ErrOracle),
		errors.Is(err, flow.ErrInvalidOutput):
		return http.StatusBadGateway, Envelope{Code: CodeUpstreamFailed, Message: ui.NoticeFor("", err).Description}
	}
	return http.StatusInternalServerError, Envelope{Code: CodeInternal, Message: ui.GenericFailure}
}

// decode reads a JSON body into v. An empty body leaves v zero.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, fmt.Errorf("%w: %w", errBadBody, err), nil)
		return false
	}
	return true
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*session.Session, bool) {
	sess, ok := h.sessions.Get(ps.ByName("sid"))
	if !ok {
		h.fail(w, r, errSessionNotFound, nil)
		return nil, false
	}
	return sess, true
}
