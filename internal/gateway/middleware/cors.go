package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the listed origins; "*" allows any.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           600,
	})
	return c.Handler
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
