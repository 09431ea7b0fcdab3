package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"volunteerHub/internal/handlers"
	"volunteerHub/internal/middleware"
)

const serviceName = "volunteerHub"

func (a *App) routes(h *handlers.Handler, gate middleware.Gate) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	authenticated := middleware.Authenticate(gate, handlers.RespondError)
	elevated := middleware.RequireElevated(gate, handlers.RespondError)

	r.Get("/health", h.HealthCheck) // GET /health

	r.Post("/volunteers/register", h.Register) // POST /volunteers/register
	r.Post("/auth/login", h.Login)             // POST /auth/login

	r.Route("/admin", func(r chi.Router) {
		r.Use(elevated)

		r.Get("/volunteers", h.ListVolunteers) // GET /admin/volunteers
		r.Get("/tasks", h.ListTasks)           // GET /admin/tasks
		r.Post("/tasks", h.CreateTask)         // POST /admin/tasks
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/my-tasks", h.MyTasks)   // GET /tasks/my-tasks
		r.Post("/submit", h.SubmitTask) // POST /tasks/submit
	})

	r.Route("/feed", func(r chi.Router) {
		r.Get("/", h.Feed) // GET /feed

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Post("/posts", h.CreatePost)   // POST /feed/posts
			r.Post("/like", h.ToggleLike)    // POST /feed/like
			r.Post("/comment", h.AddComment) // POST /feed/comment
		})
	})

	return otelhttp.NewHandler(r, serviceName)
}
