package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HealthSource reports relay backlog for the health endpoint.
type HealthSource interface {
	PendingCount(ctx context.Context) (int, error)
	DeadLetterCount(ctx context.Context) (int, error)
}

func NewRouter(h *Handlers, health HealthSource) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{"status": "ok"}

		if health != nil {
			pending, _ := health.PendingCount(r.Context())
			dead, _ := health.DeadLetterCount(r.Context())
			body["outbox"] = map[string]int{"pending": pending, "dead_letter": dead}
			if dead > 0 {
				body["status"] = "warning"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/crawls", h.CreateCrawl)
		r.Get("/crawls", h.ListCrawls)
		r.Get("/crawls/{jobID}", h.GetCrawl)
		r.Get("/products", h.ListProducts)
		r.Get("/suppliers", h.ListSuppliers)
	})

	return r
}
