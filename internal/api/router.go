package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func SetupRouter(apiHandler *APIHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/processed_agent_data", func(r chi.Router) {
		r.Post("/", apiHandler.HandleCreate)
		r.Get("/", apiHandler.HandleList)
		r.Get("/{id}", apiHandler.HandleGet)
		r.Put("/{id}", apiHandler.HandleUpdate)
		r.Delete("/{id}", apiHandler.HandleDelete)
	})

	r.Get("/ws", apiHandler.HandleWebSocket)
	r.Get("/ws/", apiHandler.HandleWebSocket)

	return r
}
