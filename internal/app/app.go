package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	cartevent "github.com/owltechengineer/ecoceo-sub006/internal/cart/event"
	carthttp "github.com/owltechengineer/ecoceo-sub006/internal/cart/handler/http"
	cartredis "github.com/owltechengineer/ecoceo-sub006/internal/cart/repository/redis"
	cartservice "github.com/owltechengineer/ecoceo-sub006/internal/cart/service"
	"github.com/owltechengineer/ecoceo-sub006/internal/catalog/cms"
	cataloghttp "github.com/owltechengineer/ecoceo-sub006/internal/catalog/handler/http"
	checkoutevent "github.com/owltechengineer/ecoceo-sub006/internal/checkout/event"
	checkouthttp "github.com/owltechengineer/ecoceo-sub006/internal/checkout/handler/http"
	"github.com/owltechengineer/ecoceo-sub006/internal/checkout/provider/mock"
	checkoutpg "github.com/owltechengineer/ecoceo-sub006/internal/checkout/repository/postgres"
	checkoutservice "github.com/owltechengineer/ecoceo-sub006/internal/checkout/service"
	"github.com/owltechengineer/ecoceo-sub006/internal/config"
	crmevent "github.com/owltechengineer/ecoceo-sub006/internal/crm/event"
	crmhttp "github.com/owltechengineer/ecoceo-sub006/internal/crm/handler/http"
	crmpg "github.com/owltechengineer/ecoceo-sub006/internal/crm/repository/postgres"
	crmservice "github.com/owltechengineer/ecoceo-sub006/internal/crm/service"
	ledgerhttp "github.com/owltechengineer/ecoceo-sub006/internal/ledger/handler/http"
	ledgerpg "github.com/owltechengineer/ecoceo-sub006/internal/ledger/repository/postgres"
	ledgerservice "github.com/owltechengineer/ecoceo-sub006/internal/ledger/service"
	trackerhttp "github.com/owltechengineer/ecoceo-sub006/internal/tracker/handler/http"
	trackerpg "github.com/owltechengineer/ecoceo-sub006/internal/tracker/repository/postgres"
	trackerservice "github.com/owltechengineer/ecoceo-sub006/internal/tracker/service"
	warehouseevent "github.com/owltechengineer/ecoceo-sub006/internal/warehouse/event"
	warehousehttp "github.com/owltechengineer/ecoceo-sub006/internal/warehouse/handler/http"
	warehousepg "github.com/owltechengineer/ecoceo-sub006/internal/warehouse/repository/postgres"
	warehouseservice "github.com/owltechengineer/ecoceo-sub006/internal/warehouse/service"
	"github.com/owltechengineer/ecoceo-sub006/migrations"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	"github.com/owltechengineer/ecoceo-sub006/pkg/health"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httpclient"
	"github.com/owltechengineer/ecoceo-sub006/pkg/kafka"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// App wires the whole service together and owns the lifecycle of its
// external connections.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
}

// New connects to Postgres, Redis and Kafka, runs migrations, and builds
// the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, pool, migrations.FS, ".", logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)

	cmsHTTP := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("cms"),
		logger,
	)
	cmsClient := cms.NewClient(cfg.CMSBaseURL, cfg.CMSAPIToken, cmsHTTP, logger)

	cartRepo := cartredis.NewCartRepository(redisClient, time.Duration(cfg.CartTTLHours)*time.Hour)
	cartSvc := cartservice.NewCartService(cartRepo, cmsClient, cartevent.NewProducer(producer, logger), logger)

	checkoutSvc := checkoutservice.NewCheckoutService(
		checkoutpg.NewOrderRepository(pool),
		cartSvc,
		mock.New(),
		checkoutevent.NewProducer(producer, logger),
		logger,
	)

	crmSvc := crmservice.NewCRMService(crmpg.NewRepository(pool), crmevent.NewProducer(producer, logger), logger)
	warehouseSvc := warehouseservice.NewWarehouseService(warehousepg.NewStockRepository(pool), warehouseevent.NewProducer(producer, logger), logger)
	ledgerSvc := ledgerservice.NewLedgerService(ledgerpg.NewEntryRepository(pool), logger)
	trackerSvc := trackerservice.NewTrackerService(trackerpg.NewRepository(pool), logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	router := newRouter(logger, healthHandler, cfg.CORSAllowedOrigins, handlers{
		catalog:   cataloghttp.NewProductHandler(cmsClient, logger),
		cart:      carthttp.NewCartHandler(cartSvc, logger),
		checkout:  checkouthttp.NewCheckoutHandler(checkoutSvc, logger),
		crm:       crmhttp.NewCRMHandler(crmSvc, logger),
		warehouse: warehousehttp.NewWarehouseHandler(warehouseSvc, logger),
		ledger:    ledgerhttp.NewLedgerHandler(ledgerSvc, logger),
		tracker:   trackerhttp.NewTrackerHandler(trackerSvc, logger),
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down cleanly.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close failed", slog.String("error", err.Error()))
	}
	a.pool.Close()

	return nil
}
