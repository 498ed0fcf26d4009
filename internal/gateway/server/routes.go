package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wandergenie/internal/gateway/handler"
	"wandergenie/internal/gateway/middleware"
)

// NewMux mounts the API, health and metrics routes and wraps them in mws,
// outermost first.
func NewMux(api *handler.Handler, metrics http.Handler, mws ...middleware.Middleware) http.Handler {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true

	api.Register(router)

	// Operations
	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if metrics != nil {
		router.Handler(http.MethodGet, "/metrics", metrics)
	}

	return middleware.Chain(router, mws...)
}
