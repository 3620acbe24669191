package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MockShop/internal/monitor"
	"MockShop/pkg/kit"
)

const ServiceName = "API Gateway"

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
	AllowedOrigins []string
}

type Deps struct {
	ProductsURL string
	UsersURL    string
	Monitor     *monitor.Monitor
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	if deps.Monitor == nil {
		return nil, errors.New("gateway: monitor is required")
	}

	productsProxy, usersProxy, err := buildProxies(deps, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	h := &healthHandlers{
		mon:     deps.Monitor,
		log:     httpDeps.Log,
		origins: httpDeps.AllowedOrigins,
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/health", kit.Health(ServiceName))
	r.Get("/health/services", kit.Handle(h.services))
	r.Post("/health/check", kit.Handle(h.check))
	r.Get("/health/stream", h.stream)
	r.Get("/readyz", h.readyz)

	r.Handle("/products", productsProxy)
	r.Handle("/products/*", productsProxy)

	r.Handle("/users", usersProxy)
	r.Handle("/users/*", usersProxy)

	return r, nil
}

func buildProxies(deps Deps, log *zap.Logger) (productsProxy, usersProxy http.Handler, err error) {
	pp, err := NewReverseProxy(deps.ProductsURL, log)
	if err != nil {
		return nil, nil, err
	}

	up, err := NewReverseProxy(deps.UsersURL, log)
	if err != nil {
		return nil, nil, err
	}

	return pp, up, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS(deps.AllowedOrigins))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
