package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *DashboardHandler) chi.Router {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/snapshot", h.Snapshot)

		r.Post("/projects", h.CreateProject)
		r.Post("/projects/{id}/archive", h.ArchiveProject)
		r.Put("/projects/{id}/workflow", h.SaveWorkflow)

		r.Post("/tasks", h.CreateTask)
		r.Post("/tasks/{id}/advance", h.RequestAdvance)
		r.Delete("/tasks/{id}", h.RequestRemove)

		r.Post("/confirmations/{action}/confirm", h.Confirm)
		r.Post("/confirmations/{action}/cancel", h.Cancel)

		r.Put("/user", h.SetCurrentUser)
		r.Post("/view/sort", h.ToggleSort)
		r.Put("/view/scope", h.SetScope)

		r.Post("/reset", h.Reset)
	})

	return r
}
