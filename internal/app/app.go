package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/checkout"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/supplier"
	"github.com/satyakarthikeya/link-local-b2b/internal/handler"
	"github.com/satyakarthikeya/link-local-b2b/internal/repository"
	"github.com/satyakarthikeya/link-local-b2b/internal/upstream"
	"github.com/satyakarthikeya/link-local-b2b/pkg/health"
	"github.com/satyakarthikeya/link-local-b2b/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Supplier directory filter, when configured.
	var directory *supplier.Directory
	if cfg.SupplierFilter != "" {
		directory, err = supplier.LoadDirectory(cfg.SupplierFilter)
		if err != nil {
			return errors.Wrap(err, "load supplier directory")
		}
		lg.Info("Supplier directory filter loaded", zap.String("path", cfg.SupplierFilter))
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Stores and upstream client.
	cartStore := repository.NewCartStore(pool)
	apikeyRepo := repository.NewAPIKeyRepository(pool)
	marketplace := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Token:   cfg.Upstream.Token,
		Timeout: cfg.Upstream.Timeout,
	})

	// Checkout orchestrator.
	metrics, err := checkout.NewMetrics(m.MeterProvider().Meter("checkout"))
	if err != nil {
		return errors.Wrap(err, "create checkout metrics")
	}
	checkoutSvc := checkout.NewService(cartStore, marketplace, marketplace, checkout.Config{
		Directory:      directory,
		LookupLimit:    cfg.Checkout.LookupLimit,
		Metrics:        metrics,
		TracerProvider: m.TracerProvider(),
	})

	// HTTP handlers: health endpoints open, API routes behind the API key.
	h := handler.NewHandler(cartStore, checkoutSvc)
	authn := handler.NewAuthenticator(apikeyRepo, []byte(cfg.APIKeyPepper))

	api := http.NewServeMux()
	h.Routes(api)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", authn.Middleware(api))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "X-API-Key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
