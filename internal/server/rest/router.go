package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter returns a configured chi.Router for augerd.
//
// Route layout:
//
//	GET /status                     – liveness probe (no authentication required)
//	GET /destructure?program_id=...  – fetch, analyze, and archive a program (x-api-key required)
//	GET /storage/{programID}        – retrieve a previously archived report (x-api-key required)
//
// apiKeys is the set of keys accepted in the x-api-key header on every
// /destructure and /storage route. Pass nil to disable key validation
// (useful in tests that cover only request parsing / response formatting).
func NewRouter(srv *Server, apiKeys []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/status", srv.handleStatus)

	r.Group(func(r chi.Router) {
		if apiKeys != nil {
			r.Use(APIKeyMiddleware(apiKeys))
		}

		r.Get("/destructure", srv.handleDestructure)
		r.Get("/storage/{programID}", func(w http.ResponseWriter, req *http.Request) {
			srv.handleStorage(w, req, chi.URLParam(req, "programID"))
		})
	})

	return r
}
