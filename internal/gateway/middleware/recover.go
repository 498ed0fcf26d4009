package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Recover turns a handler panic into a 500 response.
func Recover(logger logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.WithFields(logrus.Fields{
					"panic": rv,
					"path":  r.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("handler panic")
				writeJSON(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong. Please try again.")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
