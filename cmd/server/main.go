package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tokenhome/internal/platform/config"
	"tokenhome/internal/platform/httpserver"
	"tokenhome/internal/platform/logger"
	platformredis "tokenhome/internal/platform/redis"
	"tokenhome/internal/registry/events"
	"tokenhome/internal/registry/gate"
	"tokenhome/internal/registry/handler"
	registrymetrics "tokenhome/internal/registry/metrics"
	"tokenhome/internal/registry/receiver"
	"tokenhome/internal/registry/resolver"
	"tokenhome/internal/registry/service"
	"tokenhome/internal/registry/store"
	id "tokenhome/pkg/domain"
	adminmw "tokenhome/pkg/platform/middleware/admin"
	requestmw "tokenhome/pkg/platform/middleware/request"
)

// main wires the registry's collaborators and keeps the server lifecycle
// small. Business logic lives in internal/registry.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, ledgerHealth, closeLedger, err := buildLedger(ctx, cfg)
	if err != nil {
		log.Error("ledger init failed", "error", err)
		os.Exit(1)
	}
	defer closeLedger()

	var admin id.Address
	if cfg.AdminAddress != "" {
		admin, err = id.ParseAddress(cfg.AdminAddress)
		if err != nil {
			log.Error("invalid TOKENHOME_ADMIN_ADDRESS", "error", err)
			os.Exit(1)
		}
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		opts = append(opts, service.WithURICache(resolver.NewCache(rdb.Client, cfg.URICacheTTL)))
	}

	if len(cfg.KafkaBrokers) > 0 {
		emitter, err := events.NewKafkaEmitter(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer emitter.Close()
		opts = append(opts, service.WithEmitter(emitter))
	}

	if cfg.ReceiverWebhookURL != "" {
		opts = append(opts, service.WithReceiverChecker(receiver.NewWebhook(cfg.ReceiverWebhookURL)))
	}

	svc := service.New(ledger, gate.NewSingle(admin, ledger), resolver.EnvChainID{}, opts...)

	h := handler.New(svc, log)
	router := chi.NewRouter()
	router.Use(requestmw.Middleware)
	h.Register(router)
	if cfg.AdminToken != "" {
		router.Route("/admin", func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.AdminToken, log))
			h.RegisterAdmin(r)
		})
	} else {
		log.Warn("TOKENHOME_ADMIN_TOKEN is not set, admin routes disabled")
	}
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := ledgerHealth(r.Context()); err != nil {
			http.Error(w, "ledger unhealthy", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Health(r.Context()); err != nil {
				http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting tokenhome registry", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpserver.Shutdown(srv, 10*time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildLedger selects the postgres-backed ledger when a database URL is
// configured, falling back to the in-memory ledger for local runs. The
// returned health func backs /healthz.
func buildLedger(ctx context.Context, cfg config.Server) (store.Ledger, func(context.Context) error, func(), error) {
	if cfg.DatabaseURL == "" {
		health := func(context.Context) error { return nil }
		return store.NewInMemory(), health, func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return pg, db.PingContext, func() { db.Close() }, nil
}
