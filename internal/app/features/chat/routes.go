// internal/app/features/chat/routes.go
package chat

import "github.com/go-chi/chi/v5"

// Routes returns the message subrouter, mounted under
// /api/sessions/{sessionID}/messages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Send)
	r.Get("/", h.List)
	return r
}
