package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/ordering-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/ordering-backend/api/controllers/orders"
	"github.com/angelmondragon/ordering-backend/api/middleware"
	"github.com/angelmondragon/ordering-backend/internal/intake"
	"github.com/angelmondragon/ordering-backend/internal/orders"
	"github.com/angelmondragon/ordering-backend/pkg/config"
	"github.com/angelmondragon/ordering-backend/pkg/logger"
	"github.com/angelmondragon/ordering-backend/pkg/redis"
)

// Deps carries everything the HTTP surface is wired to. Redis is nil when not configured.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Intake  intake.Service
	Tracker orders.Tracker
	Metrics prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSAllowedOrigins),
	)

	var (
		redisPinger controllers.Pinger
		idemStore   redis.IdempotencyStore
		limiter     *redis.Client
	)
	if deps.Redis != nil {
		redisPinger = deps.Redis
		idemStore = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": redisPinger,
		}, logg))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	ordersPolicy := middleware.RateLimitPolicy{
		Name:   "public_orders",
		Limit:  cfg.HTTP.RateLimitRequests,
		Window: cfg.HTTP.RateLimitWindow,
	}
	idempotency := middleware.IdempotencyOptions{
		Scope:    "public_orders",
		TTL:      cfg.Intake.IdempotencyTTL,
		Required: cfg.Intake.RequireIdempotencyKey,
	}

	r.Route("/api/public/v1/orders", func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.PublicRateLimit(ordersPolicy, limiter, logg))
		}
		r.Use(middleware.OptionalCustomer(cfg.JWT, logg))

		r.With(middleware.Idempotency(idemStore, idempotency, logg)).
			Post("/", ordercontrollers.Create(deps.Intake, logg))
		r.Get("/track/{trackingCode}", ordercontrollers.Track(deps.Tracker, logg))
	})

	return r
}
