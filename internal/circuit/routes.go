package circuit

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all circuit endpoints onto the given router
// under the /circuit prefix.
func RegisterRoutes(r chi.Router) {
	r.Route("/circuit", func(r chi.Router) {
		r.Get("/limits", Limits)
		r.Post("/solve", Solve)
		r.Post("/batch", Batch)
		r.Post("/validate", Validate)
		r.Post("/schematic", Schematic)
	})
}
