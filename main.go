package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matricula-cloud/matricula-service/internal/config"
	"github.com/matricula-cloud/matricula-service/internal/events"
	"github.com/matricula-cloud/matricula-service/internal/handlers"
	"github.com/matricula-cloud/matricula-service/internal/repositories/casdoor"
	"github.com/matricula-cloud/matricula-service/internal/repositories/postgres"
	"github.com/matricula-cloud/matricula-service/internal/services"
	"github.com/matricula-cloud/matricula-service/internal/session"
	"github.com/matricula-cloud/matricula-service/internal/utils"
	"github.com/matricula-cloud/matricula-service/internal/validator"
	"github.com/matricula-cloud/matricula-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogger)
	logger := utils.NewSlogLogger(slogger)

	logger.Info("starting matricula-service", "environment", cfg.Environment, "port", cfg.Port)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Kafka when brokers are configured, in-process pub/sub otherwise
	var eventPublisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		eventPublisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogger)
		if err != nil {
			logger.Error("failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		logger.Info("event publishing via kafka", "brokers", cfg.KafkaBrokers)
	} else {
		eventPublisher = events.NewGoChannelEventPublisher(slogger)
		logger.Info("event publishing via in-process channel")
	}

	casdoorCfg := casdoor.CasdoorConfig{
		Endpoint:         cfg.Casdoor.Endpoint,
		ClientID:         cfg.Casdoor.ClientID,
		ClientSecret:     cfg.Casdoor.ClientSecret,
		Certificate:      cfg.Casdoor.Cert,
		OrganizationName: cfg.Casdoor.Organization,
		ApplicationName:  cfg.Casdoor.Application,
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:            db,
		RedisClient:   redisClient,
		CasdoorConfig: casdoorCfg,
	})
	if err := repoManager.Initialize(); err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	repo := repoManager.GetRepository()

	tokenStore := session.NewTokenStore(redisClient, cfg.SessionTokenKey)
	sessionStore := session.NewStore(repo.Auth(), tokenStore, slogger)

	v := validator.New()

	serviceManager := services.NewDefaultServiceManager(db, repo, slogger, v, eventPublisher)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)

	handlerManager := handlers.NewHandlerManager(
		serviceManager,
		sessionStore,
		v,
		logger,
		cfg.Casdoor,
		repo.Auth(),
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	if err := serviceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("service shutdown failed", "error", err)
	}
	if err := repoManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("repository shutdown failed", "error", err)
	}

	logger.Info("shutdown complete")
}
