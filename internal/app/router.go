package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	carthttp "github.com/owltechengineer/ecoceo-sub006/internal/cart/handler/http"
	cataloghttp "github.com/owltechengineer/ecoceo-sub006/internal/catalog/handler/http"
	checkouthttp "github.com/owltechengineer/ecoceo-sub006/internal/checkout/handler/http"
	crmhttp "github.com/owltechengineer/ecoceo-sub006/internal/crm/handler/http"
	ledgerhttp "github.com/owltechengineer/ecoceo-sub006/internal/ledger/handler/http"
	trackerhttp "github.com/owltechengineer/ecoceo-sub006/internal/tracker/handler/http"
	warehousehttp "github.com/owltechengineer/ecoceo-sub006/internal/warehouse/handler/http"
	"github.com/owltechengineer/ecoceo-sub006/pkg/health"
	"github.com/owltechengineer/ecoceo-sub006/pkg/middleware"
)

const serviceName = "ecoceo-api"

type handlers struct {
	catalog   *cataloghttp.ProductHandler
	cart      *carthttp.CartHandler
	checkout  *checkouthttp.CheckoutHandler
	crm       *crmhttp.CRMHandler
	warehouse *warehousehttp.WarehouseHandler
	ledger    *ledgerhttp.LedgerHandler
	tracker   *trackerhttp.TrackerHandler
}

// newRouter assembles the full HTTP surface: operational endpoints at the
// root, the API under /api/v1.
func newRouter(logger *slog.Logger, healthHandler *health.Handler, corsOrigins []string, h handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))

	corsCfg := middleware.DefaultCORSConfig()
	if len(corsOrigins) > 0 {
		corsCfg.AllowedOrigins = corsOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", healthHandler.LivenessHandler())
	r.Get("/readyz", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		h.catalog.RegisterRoutes(r)
		h.cart.RegisterRoutes(r)
		h.checkout.RegisterRoutes(r)
		h.crm.RegisterRoutes(r)
		h.warehouse.RegisterRoutes(r)
		h.ledger.RegisterRoutes(r)
		h.tracker.RegisterRoutes(r)
	})

	return r
}
