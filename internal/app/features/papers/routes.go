// internal/app/features/papers/routes.go
package papers

import "github.com/go-chi/chi/v5"

// Routes returns the paper catalog subrouter, mounted under /api/papers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/{paperID}", h.Get)
	return r
}

// SessionRoutes returns the attachment subrouter, mounted under
// /api/sessions/{sessionID}/papers.
func SessionRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Attach)
	r.Get("/", h.ListBySession)
	return r
}
