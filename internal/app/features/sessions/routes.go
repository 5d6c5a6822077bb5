// internal/app/features/sessions/routes.go
package sessions

import "github.com/go-chi/chi/v5"

// Routes returns the session registry subrouter, mounted under
// /api/sessions. The messages and papers subrouters hang off the
// per-session subtree so they share the {sessionID} parameter.
func Routes(h *Handler, messages, papers chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/end", h.End)
		r.Mount("/messages", messages)
		r.Mount("/papers", papers)
	})
	return r
}
