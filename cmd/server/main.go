package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "deckboard/docs"
	"deckboard/internal/auth"
	"deckboard/internal/cache"
	"deckboard/internal/config"
	"deckboard/internal/database"
	"deckboard/internal/handler"
	"deckboard/internal/job"
	"deckboard/internal/logging"
	"deckboard/internal/metrics"
	"deckboard/internal/realtime"
	"deckboard/internal/reconcile"
	"deckboard/internal/repository"
	"deckboard/internal/server"
	"deckboard/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dbStatsInterval = 15 * time.Second

var cfgFile string

// @title           Deckboard API
// @version         1.0
// @description     Ordered decks on workspace boards with drag-and-drop reordering.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	rootCmd := &cobra.Command{
		Use:   "deckboard",
		Short: "Deck ordering service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to configuration file")
	flags.String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	flags.String("database-driver", defaults.GetString("database.driver"), "Database driver (postgres, sqlite)")
	flags.String("database-dsn", "", "Postgres connection string")
	flags.String("database-path", defaults.GetString("database.path"), "SQLite database path")
	flags.String("redis-url", "", "Redis URL for the workspace cache; empty uses memory")
	flags.String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	flags.String("audit-schedule", defaults.GetString("audit.schedule"), "Cron schedule of the order audit; empty disables it")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.dsn", "database-dsn")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "redis.url", "redis-url")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "audit.schedule", "audit-schedule")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deckboard")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &configNotFound) {
			return err
		}
	}
	return nil
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(registry, logger)

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		return err
	}
	logger.Info("connected to database", zap.String("driver", cfg.Database.Driver))

	deckRepo := repository.NewDeckRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	var backend cache.Backend = cache.NewMemoryBackend()
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		backend = cache.NewRedisBackend(client)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("workspace cache uses redis")
	}
	workspaces := cache.NewWorkspaceCache(backend, workspaceRepo.ListIDsByUser, cfg.CacheTTL, logger)

	dispatcher := realtime.NewDispatcher()
	dispatcher.OnSubscriberChange(m.SetRealtimeSubscribers)

	reconciler := reconcile.New(deckRepo, logger, m)
	decks := service.NewDeckService(deckRepo, boardRepo, workspaces, reconciler, dispatcher, m, logger)
	members := service.NewMemberService(workspaceRepo, memberRepo, workspaces, logger)

	srv, err := server.New(server.Dependencies{
		Address:        cfg.HTTPAddress,
		Mode:           cfg.HTTPMode,
		AllowedOrigins: cfg.AllowedOrigins,
		Tokens:         auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Decks:          decks,
		Events:         dispatcher,
		Workspaces:     workspaces,
		Members:        members,
		Providers:      auth.NewProviders(cfg.OAuthRedirect, providerCredentials(cfg.OAuth, logger)),
		Health:         checks,
		Metrics:        m,
		Gatherer:       registry,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	audit, err := job.NewOrderAudit(deckRepo, m, cfg.AuditSchedule, logger)
	if err != nil && !errors.Is(err, job.ErrDisabled) {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return database.CollectStats(ctx, db, m, dbStatsInterval) })
	if audit != nil {
		g.Go(func() error { return audit.Run(ctx) })
	} else {
		logger.Info("order audit disabled")
	}

	return g.Wait()
}

func providerCredentials(clients map[string]config.OAuthClient, logger *zap.Logger) map[auth.Provider]auth.Credentials {
	out := make(map[auth.Provider]auth.Credentials, len(clients))
	for name, client := range clients {
		provider, err := auth.ParseProvider(name)
		if err != nil {
			logger.Warn("ignoring oauth client", zap.String("provider", name), zap.Error(err))
			continue
		}
		out[provider] = auth.Credentials{ClientID: client.ClientID, ClientSecret: client.ClientSecret}
	}
	return out
}
