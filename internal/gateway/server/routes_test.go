package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wandergenie/internal/flow"
	"wandergenie/internal/gateway/handler"
	"wandergenie/internal/gateway/middleware"
	"wandergenie/internal/gateway/session"
	"wandergenie/internal/llm"
	"wandergenie/internal/metrics"
)

func TestNewMux(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	m := metrics.New()
	runner := flow.New(llm.NewFakeClient(), flow.WithObserver(m), flow.WithLogger(logger))
	store := session.NewStore(runner, session.Options{Logger: logger})
	defer store.Close()

	mux := NewMux(handler.New(runner, store, logger), m.Handler(),
		middleware.Recover(logger),
		middleware.NewRateLimiter(1000, 1000).Limit,
	)

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/v1/languages", http.StatusOK},
		{http.MethodGet, "/v1/itinerary", http.StatusMethodNotAllowed},
		{http.MethodGet, "/v1/nowhere", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
