package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/chat"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(logger.Options{Production: os.Getenv("APP_ENV") == "production"})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	// APP_ENV may only have been set by .env
	logger.Init(logger.Options{Production: cfg.IsProduction()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	remote, closeRemote, err := openRemote(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRemote()

	store := catalog.NewStore(remote, catalog.Options{
		Collection:         cfg.Catalog.Collection,
		RevertFailedWrites: cfg.Catalog.RevertFailedWrites,
		WriteTimeout:       cfg.Catalog.WriteTimeout,
		Metrics:            metrics.NewCatalog(reg),
	})
	unsubscribe, err := store.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer unsubscribe()

	sessions := cache.New[chat.Session](cfg.Chat.SessionTTL)
	defer sessions.Close()

	secret := cfg.Admin.JWTSecret
	if secret == "" {
		// Tokens do not survive a restart without a configured secret.
		secret = uuid.NewString()
		logger.Warn().Msg("JWT_SECRET not set, using a per-process secret")
	}
	svc := auth.NewService(auth.Credentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       secret,
		TokenTTL:     cfg.Admin.TokenTTL,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware())
	routes.RegisterRoutes(router, routes.Dependencies{
		Products: handlers.NewProductHandler(store),
		Admin:    handlers.NewAdminHandler(store, svc, cfg.Catalog.RevertFailedWrites),
		Chat:     handlers.NewChatHandler(chat.NewManager(store, sessions)),
		Auth:     svc,
		Metrics:  reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Str("backend", cfg.Catalog.Backend).Msg("🚀 server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openRemote connects the configured catalog backend
func openRemote(ctx context.Context, cfg *config.Config) (catalog.RemoteStore, func(), error) {
	if cfg.Catalog.Backend == config.BackendMemory {
		logger.Warn().Msg("using the in-memory catalog backend, nothing is persisted")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("disconnect from MongoDB")
		}
	}
	return repository.NewProductRepository(client.Database(cfg.MongoDB)), closeClient, nil
}
