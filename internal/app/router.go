package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/observability"
	"github.com/pressdesk/pressdesk/internal/rbac"
	"github.com/pressdesk/pressdesk/internal/resources"
	"github.com/pressdesk/pressdesk/internal/roles"
	"github.com/pressdesk/pressdesk/internal/users"
	"github.com/pressdesk/pressdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	AuthMiddleware     auth.Middleware
	RolesHandler       *roles.Handler
	UsersHandler       *users.Handler
	ResourcesHandler   *resources.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Pressdesk defaults.
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

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			params.AuthHandler.MountRoutes(ar)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(params.AuthMiddleware.Authenticate)

			protected.Route("/users", params.UsersHandler.MountRoutes)
			protected.Route("/roles", params.RolesHandler.MountRoutes)
			protected.Route("/permissions", params.PermissionsHandler.MountRoutes)

			params.ResourcesHandler.MountRoutes(protected)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
