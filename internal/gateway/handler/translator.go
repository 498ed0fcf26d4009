package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"wandergenie/internal/ui"
)

func (h *Handler) translatorSnapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sess, ok := h.lookup(w, r, ps); ok {
		writeOK(w, http.StatusOK, sess.Translator.Snapshot())
	}
}

func (h *Handler) translatorLanguage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var body struct {
		Language string `json:"language"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	if err := sess.Translator.SetTargetLanguage(body.Language); err != nil {
		h.fail(w, r, err, sess.Translator.Snapshot())
		return
	}
	writeOK(w, http.StatusOK, sess.Translator.Snapshot())
}

func (h *Handler) translatorStart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.translatorAction(w, r, ps, (*ui.TranslatorView).StartRecording)
}

func (h *Handler) translatorCancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.translatorAction(w, r, ps, (*ui.TranslatorView).CancelRecording)
}

func (h *Handler) translatorAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params, act func(*ui.TranslatorView) error) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	if err := act(sess.Translator); err != nil {
		h.fail(w, r, err, sess.Translator.Snapshot())
		return
	}
	writeOK(w, http.StatusOK, sess.Translator.Snapshot())
}

func (h *Handler) translatorStop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var body struct {
		AudioDataURI string `json:"audioDataUri"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	snap, err := sess.Translator.StopRecording(r.Context(), body.AudioDataURI)
	h.translatorResult(w, r, sess.Translator, snap, err)
}

func (h *Handler) translatorText(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	snap, err := sess.Translator.TranslateText(r.Context(), body.Text)
	h.translatorResult(w, r, sess.Translator, snap, err)
}

func (h *Handler) translatorResult(w http.ResponseWriter, r *http.Request, v *ui.TranslatorView, snap ui.TranslatorSnapshot, err error) {
	if err != nil {
		// Rejected transitions return an empty snapshot.
		if snap.Status == "" {
			snap = v.Snapshot()
		}
		h.fail(w, r, err, snap)
		return
	}
	writeOK(w, http.StatusOK, snap)
}

func (h *Handler) translatorError(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	var body struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	writeOK(w, http.StatusOK, sess.Translator.ReportEnvironmentError(body.Kind, body.Message))
}

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsInbound struct {
	Type string `json:"type"`
}

type wsOutbound struct {
	Type       string                 `json:"type"`
	Translator *ui.TranslatorSnapshot `json:"translator,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

// translatorWS streams every translator status change until the client
// leaves or the session ends.
func (h *Handler) translatorWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := h.lookup(w, r, ps)
	if !ok {
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snaps, unsubscribe := sess.Translator.Subscribe()
	defer unsubscribe()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		h.log.WithError(err).Warn("translator ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		write := func(out wsOutbound) bool {
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return false
			}
			return conn.WriteJSON(out) == nil
		}
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snaps:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
						time.Now().Add(wsWriteWait))
					// Unblocks the read loop.
					_ = conn.Close()
					return
				}
				if !write(wsOutbound{Type: "status", Translator: &snap}) {
					return
				}
			case out := <-writeCh:
				if !write(out) {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		case "snapshot":
			snap := sess.Translator.Snapshot()
			pushWS(writeCh, wsOutbound{Type: "status", Translator: &snap})
		default:
			pushWS(writeCh, wsOutbound{Type: "error", Message: "unsupported type: " + in.Type})
		}
	}
}

// pushWS drops the oldest queued message when the writer lags.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
