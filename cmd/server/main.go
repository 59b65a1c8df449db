package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"fred/internal/domainname"
	"fred/internal/platform/config"
	"fred/internal/platform/db"
	"fred/internal/platform/httpserver"
	"fred/internal/platform/logger"
	platformmetrics "fred/internal/platform/metrics"
	"fred/internal/platform/middleware"
	"fred/internal/state/handler"
	statemetrics "fred/internal/state/metrics"
	"fred/internal/state/service"
	"fred/internal/state/store"
	"fred/pkg/platform/httputil"
	"fred/pkg/platform/middleware/requesttime"
	"fred/pkg/platform/tx"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fred-state: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	validator, err := lookupValidator(cfg.DomainCheckers)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.New(store.NewPostgres(database),
		service.WithLogger(log),
		service.WithMetrics(statemetrics.New(reg)),
		service.WithStrictFlags(cfg.StrictStateFlags),
		service.WithDomainNameValidator(validator),
	)

	runner := tx.NewRunner(database, tx.WithTimeout(cfg.QueryTimeout))
	if err := checkVocabularies(ctx, runner, svc, cfg.StrictStateFlags); err != nil {
		return err
	}

	router := newRouter(log, reg, runner, database, handler.New(svc, log))
	srv := httpserver.New(cfg.Addr, router, cfg.QueryTimeout+5*time.Second)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting fred state API", "addr", cfg.Addr, "domain_checkers", validator.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// lookupValidator builds the handle pre-check for domain lookups from the
// named checkers. No names means no pre-check.
func lookupValidator(names []string) (*domainname.Validator, error) {
	if len(names) == 0 {
		return nil, nil
	}
	v, err := domainname.DefaultRegistry().Validator(names...)
	if err != nil {
		return nil, fmt.Errorf("domain checkers: %w", err)
	}
	return v, nil
}

// checkVocabularies reports state vocabulary drift at startup. In strict
// mode a drifted vocabulary keeps the server from starting.
func checkVocabularies(ctx context.Context, runner *tx.Runner, svc *service.Service, strict bool) error {
	var drifts []service.VocabularyDrift
	err := runner.RunReadOnly(ctx, func(ctx context.Context) error {
		var err error
		drifts, err = svc.CheckVocabularies(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("check state vocabularies: %w", err)
	}
	if strict && len(drifts) > 0 {
		return fmt.Errorf("state vocabularies differ from database for %d object types", len(drifts))
	}
	return nil
}

func newRouter(log *slog.Logger, reg *prometheus.Registry, runner *tx.Runner, database *sql.DB, h *handler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log, platformmetrics.New(reg)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ReadOnlyTx(runner, log))
		h.Register(r)
	})
	return r
}
