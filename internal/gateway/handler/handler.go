// Package handler exposes the flows and the per-session views over JSON
// HTTP. Every response, success or failure, is a {code, message, data}
// envelope.
package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"wandergenie/internal/gateway/session"
	"wandergenie/internal/types"
)

type Handler struct {
	flows    session.Flows
	sessions *session.Store
	log      logrus.FieldLogger
}

func New(flows session.Flows, sessions *session.Store, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{flows: flows, sessions: sessions, log: logger}
}

// Register mounts every API route on r.
func (h *Handler) Register(r *httprouter.Router) {
	// Stateless: one flow call per request.
	r.POST("/v1/itinerary", h.planItinerary)
	r.POST("/v1/highlights", h.researchHighlights)
	r.POST("/v1/chat", h.chat)
	r.POST("/v1/transcribe", h.transcribe)
	r.POST("/v1/translate", h.translate)
	r.GET("/v1/languages", h.languages)

	r.POST("/v1/sessions", h.createSession)
	r.DELETE("/v1/sessions/:sid", h.deleteSession)

	r.GET("/v1/sessions/:sid/itinerary", h.itinerarySnapshot)
	r.POST("/v1/sessions/:sid/itinerary", h.itinerarySubmit)
	r.GET("/v1/sessions/:sid/explore", h.exploreSnapshot)
	r.POST("/v1/sessions/:sid/explore", h.exploreSubmit)
	r.GET("/v1/sessions/:sid/chat", h.chatSnapshot)
	r.POST("/v1/sessions/:sid/chat", h.chatSend)

	r.GET("/v1/sessions/:sid/translator", h.translatorSnapshot)
	r.POST("/v1/sessions/:sid/translator/language", h.translatorLanguage)
	r.POST("/v1/sessions/:sid/translator/start", h.translatorStart)
	r.POST("/v1/sessions/:sid/translator/stop", h.translatorStop)
	r.POST("/v1/sessions/:sid/translator/cancel", h.translatorCancel)
	r.POST("/v1/sessions/:sid/translator/text", h.translatorText)
	r.POST("/v1/sessions/:sid/translator/error", h.translatorError)
	r.GET("/v1/sessions/:sid/translator/ws", h.translatorWS)

	r.GET("/v1/sessions/:sid/documents", h.documentsList)
	r.POST("/v1/sessions/:sid/documents", h.documentsAdd)
	r.DELETE("/v1/sessions/:sid/documents/:id", h.documentsRemove)
}

func (h *Handler) planItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req types.ItineraryRequest
	if !h.decode(w, r, &req) {
		return
	}
	statelessCall(h, w, r, req, h.flows.Itinerary)
}

func (h *Handler) researchHighlights(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req types.HighlightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	statelessCall(h, w, r, req, h.flows.Highlights)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req types.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	statelessCall(h, w, r, req, h.flows.Chat)
}

func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req types.TranscriptionRequest
	if !h.decode(w, r, &req) {
		return
	}
	statelessCall(h, w, r, req, h.flows.Transcribe)
}

func (h *Handler) translate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req types.TranslationRequest
	if !h.decode(w, r, &req) {
		return
	}
	statelessCall(h, w, r, req, h.flows.TranslateAndSpeak)
}

func (h *Handler) languages(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeOK(w, http.StatusOK, map[string]any{
		"languages": types.Languages(),
		"default":   types.DefaultTargetLanguage,
	})
}

func statelessCall[Req, Resp any](h *Handler, w http.ResponseWriter, r *http.Request, req Req, run func(context.Context, Req) (Resp, error)) {
	resp, err := run(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, resp)
}
