// Command countledger runs the inventory-count audit service: tenant
// registration, session auth, the audit event trail, and the live
// WebSocket feed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/countledger/countledger/internal/api"
	"github.com/countledger/countledger/internal/config"
	"github.com/countledger/countledger/internal/db"
	"github.com/countledger/countledger/internal/db/migrations"
	"github.com/countledger/countledger/internal/dbpool"
	"github.com/countledger/countledger/internal/service"
	"github.com/countledger/countledger/internal/store"
	"github.com/countledger/countledger/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	accounts := store.NewAccountStore(base)
	sessions := store.NewSessionStore(base)
	profiles := store.NewProfileStore(base)
	tenants := store.NewTenantStore(base)
	audit := store.NewAuditStore(base)

	auditWorker := service.NewAuditWorker(audit, log, cfg.AuditQueueSize)
	authSvc := service.NewAuthService(accounts, sessions, profiles, log, cfg.SessionTTL)
	regSvc := service.NewRegistrationService(tenants, auditWorker, log)
	auditSvc := service.NewAuditService(audit, log)

	hub := ws.NewHub(log)
	bridge := db.NewNotifyBridge(log, pool, hub)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Auth:        authSvc,
		Registrar:   regSvc,
		Audit:       auditSvc,
		Settings:    tenants,
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,

		TrailMaxLimit: cfg.TrailMaxLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		auditWorker.Run(gctx)

		return nil
	})

	g.Go(func() error {
		hub.Run(gctx)

		return nil
	})

	if err := bridge.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		log.WithField("addr", cfg.Addr()).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		return srv.Shutdown(shutdownCtx)
	})

	// Expired sessions are swept periodically so the table stays small.
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n, err := sessions.PurgeExpired(gctx); err != nil {
					log.WithError(err).Warn("purging expired sessions")
				} else if n > 0 {
					log.WithField("purged", n).Info("expired sessions removed")
				}
			}
		}
	})

	return g.Wait()
}
