package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atelier-lms/atelier/internal/auth"
	"github.com/atelier-lms/atelier/internal/authz"
	"github.com/atelier-lms/atelier/internal/courses"
	"github.com/atelier-lms/atelier/internal/observability"
	"github.com/atelier-lms/atelier/internal/projects"
	"github.com/atelier-lms/atelier/internal/topics"
	"github.com/atelier-lms/atelier/internal/users"
	"github.com/atelier-lms/atelier/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	CoursesHandler  *courses.Handler
	ProjectsHandler *projects.Handler
	TopicsHandler   *topics.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRegistry assembles the process-wide operation registry from every
// module's declarations. Built once at startup, immutable afterwards.
func NewRegistry() (*authz.Registry, error) {
	var ops []authz.Operation
	ops = append(ops, auth.Operations()...)
	ops = append(ops, users.Operations()...)
	ops = append(ops, courses.Operations()...)
	ops = append(ops, projects.Operations()...)
	ops = append(ops, topics.Operations()...)
	return authz.NewRegistry(ops...)
}

// NewRouter constructs the chi.Router with Atelier defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/courses", params.CoursesHandler.MountRoutes)
		r.Route("/projects", params.ProjectsHandler.MountRoutes)
		r.Route("/topics", params.TopicsHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
