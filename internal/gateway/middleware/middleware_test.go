package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func get(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/languages", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_PerIP(t *testing.T) {
	h := NewRateLimiter(0.001, 2).Limit(ok)

	assert.Equal(t, http.StatusNoContent, get(h, "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusNoContent, get(h, "10.0.0.1:2222").Code)
	rec := get(h, "10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"code":"RATE_LIMITED","message":"Too many requests. Please try again later."}`, rec.Body.String())

	// Another client has its own bucket.
	assert.Equal(t, http.StatusNoContent, get(h, "10.0.0.2:1111").Code)
}

func TestRecover(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := get(h, "10.0.0.1:1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handler panic", hook.LastEntry().Message)
}

func TestAccessLog(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h := AccessLog(logger)(ok)
	get(h, "192.168.1.9:5000")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusNoContent, entry.Data["status"])
	assert.Equal(t, "/v1/languages", entry.Data["path"])
	assert.Equal(t, "192.168.1.9", entry.Data["remote"])
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example"})(ok)

	req := httptest.NewRequest(http.MethodOptions, "/v1/itinerary", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/languages", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	get(Chain(ok, mk("a"), nil, mk("b")), "1.1.1.1:1")
	assert.Equal(t, []string{"a", "b"}, order)
}
