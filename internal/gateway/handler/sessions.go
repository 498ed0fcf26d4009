package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"wandergenie/internal/types"
	"wandergenie/internal/ui"
)

type sessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	sess := h.sessions.Create()
	writeOK(w, http.StatusCreated, sessionInfo{ID: sess.ID, CreatedAt: sess.CreatedAt})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.sessions.Delete(ps.ByName("sid")) {
		h.fail(w, r, errSessionNotFound, nil)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (h *Handler) itinerarySnapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sess, ok := h.lookup(w, r, ps); ok {
		writeOK(w, http.StatusOK, sess.Itinerary.Snapshot())
	}
}

func (h *Handler) itinerarySubmit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var req types.ItineraryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, err := sess.Itinerary.Submit(r.Context(), req); err != nil {
		h.fail(w, r, err, sess.Itinerary.Snapshot())
		return
	}
	writeOK(w, http.StatusOK, sess.Itinerary.Snapshot())
}

func (h *Handler) exploreSnapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sess, ok := h.lookup(w, r, ps); ok {
		writeOK(w, http.StatusOK, sess.Explore.Snapshot())
	}
}

func (h *Handler) exploreSubmit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var req types.HighlightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, err := sess.Explore.Submit(r.Context(), req); err != nil {
		h.fail(w, r, err, sess.Explore.Snapshot())
		return
	}
	writeOK(w, http.StatusOK, sess.Explore.Snapshot())
}

func (h *Handler) chatSnapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sess, ok := h.lookup(w, r, ps); ok {
		writeOK(w, http.StatusOK, sess.Chat.Snapshot())
	}
}

func (h *Handler) chatSend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var req types.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, err := sess.Chat.Send(r.Context(), req.Message); err != nil {
		h.fail(w, r, err, sess.Chat.Snapshot())
		return
	}
	writeOK(w, http.StatusOK, sess.Chat.Snapshot())
}

type documentEntry struct {
	types.UploadedDocument
	SizeLabel string `json:"sizeLabel"`
}

func documentEntries(docs []types.UploadedDocument) []documentEntry {
	out := make([]documentEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentEntry{UploadedDocument: d, SizeLabel: ui.HumanSize(d.Size)})
	}
	return out
}

func (h *Handler) documentsList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sess, ok := h.lookup(w, r, ps); ok {
		writeOK(w, http.StatusOK, map[string]any{"documents": documentEntries(sess.Documents.List())})
	}
}

func (h *Handler) documentsAdd(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var body struct {
		Documents []types.DocumentInput `json:"documents"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	added, err := sess.Documents.Add(body.Documents...)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"documents": documentEntries(added)})
}

func (h *Handler) documentsRemove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	if err := sess.Documents.Remove(ps.ByName("id")); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"documents": documentEntries(sess.Documents.List())})
}
