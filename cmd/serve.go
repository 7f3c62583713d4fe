// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/medpay-admin/internal/authorization"
	"github.com/canonical/medpay-admin/internal/cache"
	"github.com/canonical/medpay-admin/internal/config"
	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/jobs"
	"github.com/canonical/medpay-admin/internal/kratos"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/monitoring/prometheus"
	"github.com/canonical/medpay-admin/internal/openfga"
	"github.com/canonical/medpay-admin/internal/storage"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/pkg/authentication"
	"github.com/canonical/medpay-admin/pkg/companies"
	"github.com/canonical/medpay-admin/pkg/grants"
	"github.com/canonical/medpay-admin/pkg/session"
	"github.com/canonical/medpay-admin/pkg/status"
	"github.com/canonical/medpay-admin/pkg/web"
)

const (
	backendPostgres = "postgres"
	backendRedis    = "redis"
	backendMemory   = "memory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// snapshotBackend holds the durable session storage picked by configuration.
// purger is nil when the backend expires records on its own.
type snapshotBackend struct {
	storage session.DurableStorageInterface
	purger  jobs.SnapshotPurgerInterface
	check   status.Checker
	close   func()
}

func newSnapshotBackend(specs *config.EnvSpec, dbClient *db.DBClient, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*snapshotBackend, error) {
	switch specs.SessionBackend {
	case backendPostgres:
		s := storage.NewSnapshotStorage(dbClient, tracer, monitor, logger)
		return &snapshotBackend{storage: s, purger: s, close: func() {}}, nil
	case backendRedis:
		rdb, err := cache.NewRedisClient(context.Background(), cache.Config{
			Addr:     specs.RedisAddr,
			Password: specs.RedisPassword,
			DB:       specs.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %v", err)
		}
		return &snapshotBackend{
			storage: cache.NewSnapshotStorage(rdb, tracer, monitor, logger),
			check:   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			close:   func() { _ = rdb.Close() },
		}, nil
	case backendMemory:
		s := session.NewMemoryStorage()
		return &snapshotBackend{storage: s, purger: s, close: func() {}}, nil
	}

	return nil, fmt.Errorf("unknown session backend %q", specs.SessionBackend)
}

func newAuthorizer(specs config.AuthorizationSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*authorization.Authorizer, error) {
	if !specs.AuthorizationEnabled {
		logger.Info("Using noop authorizer")
		return authorization.NewAuthorizer(openfga.NewNoopClient(tracer, monitor, logger), tracer, monitor, logger), nil
	}

	ofga, err := openfga.NewClient(
		&openfga.Config{
			ApiURL:      specs.OpenfgaApiURL,
			StoreID:     specs.OpenfgaStoreId,
			ApiToken:    specs.OpenfgaApiToken,
			AuthModelID: specs.OpenfgaModelId,
			Tracer:      tracer,
			Monitor:     monitor,
			Logger:      logger,
		},
	)
	if err != nil {
		return nil, err
	}

	authorizer := authorization.NewAuthorizer(ofga, tracer, monitor, logger)
	logger.Info("Authorization is enabled")

	if err := authorizer.ValidateModel(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid authorization model provided: %w", err)
	}

	return authorizer, nil
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("medpay-admin", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	snapshots, err := newSnapshotBackend(specs, dbClient, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer snapshots.close()
	logger.Infof("Session snapshots stored in %s", specs.SessionBackend)

	authorizer, err := newAuthorizer(specs.AuthorizationSpec, tracer, monitor, logger)
	if err != nil {
		return err
	}

	kratosClient := kratos.NewClient(
		specs.KratosPublicURL,
		specs.KratosAdminURL,
		tracer,
		monitor,
		logger,
	)

	manager := session.NewManager(
		specs.SessionLifetime,
		kratosClient,
		s,
		snapshots.storage,
		tracer,
		monitor,
		logger,
	)

	checks := map[string]status.Checker{"database": dbClient.Ping}
	if snapshots.check != nil {
		checks["redis"] = snapshots.check
	}

	router := web.NewRouter(
		&web.Services{
			Sessions:     manager,
			Cookies:      authentication.NewCookieCodec(specs.SessionSecret, specs.SessionLifetime, specs.CookieSecure),
			LoginLimiter: authentication.NewLimiter(specs.LoginRatePerMinute, specs.LoginBurst),
			Companies:    companies.NewService(s, tracer, monitor, logger),
			Grants:       grants.NewService(s, authorizer, kratosClient, specs.RecoveryLinkLifetime, tracer, monitor, logger),
			DB:           dbClient,
			StatusChecks: checks,
			CORSOrigins:  specs.CORSAllowedOrigins,
		},
		tracer,
		monitor,
		logger,
	)

	scheduler := jobs.NewScheduler(specs.SweepSchedule, specs.SessionMaxIdle, manager, snapshots.purger, tracer, logger)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to schedule session sweeps: %v", err)
	}
	defer scheduler.Stop()

	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
