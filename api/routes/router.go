package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codecollab/casevault-backend/api/controllers"
	"github.com/codecollab/casevault-backend/api/middleware"
	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/internal/game"
	"github.com/codecollab/casevault-backend/internal/inventory"
	"github.com/codecollab/casevault-backend/internal/profiles"
	"github.com/codecollab/casevault-backend/pkg/config"
	"github.com/codecollab/casevault-backend/pkg/db"
	"github.com/codecollab/casevault-backend/pkg/logger"
	"github.com/codecollab/casevault-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	GameSvc      game.Service
	CatalogSvc   catalog.Service
	InventorySvc inventory.Service
	ProfileSvc   profiles.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	openPolicy := middleware.NewOpenRateLimitPolicy(cfg.OpenLimit)

	r.Route("/api/v1", func(r chi.Router) {
		// catalog reads are public
		r.Get("/cases", controllers.CasesList(deps.CatalogSvc, logg))
		r.Get("/cases/{caseId}", controllers.CasesGet(deps.CatalogSvc, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(middleware.OpenRateLimit(openPolicy, deps.Redis, logg)).
				Post("/cases/{caseId}/open", controllers.CasesOpen(deps.GameSvc, logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(deps.InventorySvc, logg))
				r.Post("/{recordId}/sell", controllers.InventorySell(deps.GameSvc, logg))
				r.Post("/sell-all", controllers.InventorySellAll(deps.GameSvc, logg))
			})

			r.Get("/profile", controllers.ProfileGet(deps.ProfileSvc, logg))
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Post("/items", controllers.AdminCreateItem(deps.CatalogSvc, logg))
		r.Post("/cases", controllers.AdminCreateCase(deps.CatalogSvc, logg))
	})

	return r
}
