package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tutormatch-go/internal/config"
	"tutormatch-go/internal/transport/httpserver/handler"
	authmw "tutormatch-go/internal/transport/httpserver/middleware"
	"tutormatch-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS.AllowedOrigins))

	if cfg.RateLimit.Enabled {
		limiter := authmw.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/signup", handlers.Signup)
		r.Post("/auth/signin", handlers.Signin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Post("/tutors", handlers.RegisterTutor)
			r.Get("/tutors/me", handlers.GetMyTutorProfile)

			r.Get("/categories", handlers.ListCategories)

			r.Get("/jobs", handlers.ListJobs)
			r.Post("/jobs", handlers.CreateJob)
			r.Get("/jobs/{jobID}", handlers.GetJob)
			r.Patch("/jobs/{jobID}", handlers.EditJob)
			r.Delete("/jobs/{jobID}", handlers.DeleteJob)
			r.Post("/jobs/{jobID}/publish", handlers.PublishJob)
			r.Post("/jobs/{jobID}/close", handlers.CloseJob)
			r.Put("/jobs/{jobID}/categories", handlers.AttachJobCategories)
			r.Delete("/jobs/{jobID}/categories", handlers.DetachJobCategories)
			r.Get("/jobs/{jobID}/candidates", handlers.ListJobCandidates)

			r.Post("/jobs/{jobID}/applications", handlers.CreateApplication)
			r.Get("/jobs/{jobID}/applications", handlers.ListJobApplications)
			r.Get("/applications/me", handlers.ListMyApplications)
			r.Patch("/applications/{applicationID}/message", handlers.UpdateApplicationMessage)
			r.Post("/applications/{applicationID}/decision", handlers.DecideApplication)
			r.Post("/applications/{applicationID}/confirm", handlers.ConfirmApplication)

			r.Get("/contracts", handlers.ListContracts)
			r.Get("/contracts/{contractID}", handlers.GetContract)
		})
	})

	return r
}
