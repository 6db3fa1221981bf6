package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zizouhuweidi/trivia/internal/broker"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/handler"
	"github.com/zizouhuweidi/trivia/internal/logger"
	"github.com/zizouhuweidi/trivia/internal/metrics"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/repository/postgres"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	var (
		questionRepo domain.QuestionRepository
		categoryRepo domain.CategoryRepository
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.SeedCategories {
			store.SeedCategories(domain.DefaultCategories)
		}
		questionRepo = memory.NewQuestionRepository(store)
		categoryRepo = memory.NewCategoryRepository(store)
	default:
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		if cfg.SeedCategories {
			seeded, err := database.SeedCategories(ctx, pool, domain.DefaultCategories)
			if err != nil {
				return err
			}
			if seeded > 0 {
				zl.Info("seeded categories", zap.Int64("count", seeded))
			}
		}
		questionRepo = postgres.NewQuestionRepository(pool)
		categoryRepo = postgres.NewCategoryRepository(pool)
	}
	zl.Info("store ready", zap.String("driver", cfg.StoreDriver))

	// Initialize websocket hub
	hub := websocket.NewHub(zl.Named("websocket"))
	go hub.Run(ctx)

	// Events go through Redis when it is configured so that every instance
	// relays them to its own websocket clients.
	var (
		publisher domain.EventPublisher = hub
		write     []echo.MiddlewareFunc
	)
	if cfg.Redis.Enabled() {
		redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		events := broker.New(redisClient, zl.Named("broker"))
		publisher = events
		go func() {
			if err := events.Relay(ctx, hub); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("event relay stopped", zap.Error(err))
			}
		}()

		limiter := broker.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		write = append(write, handler.RateLimit(limiter, zl))
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, questionRepo)
	questionService := service.NewQuestionService(questionRepo, categoryRepo, publisher, zl.Named("questions"))
	quizService := service.NewQuizService(questionRepo, categoryRepo)

	// Initialize Echo
	e := handler.NewEcho(zl)
	m := metrics.New()

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(handler.RequestLogger(zl))
	e.Use(middleware.Recover())
	e.Use(m.Middleware())
	e.Use(handler.CORS())
	e.Use(middleware.BodyLimit("1M"))

	// Routes
	handler.Mount(e, handler.Handlers{
		Categories: handler.NewCategoryHandler(categoryService),
		Questions:  handler.NewQuestionHandler(questionService),
		Quizzes:    handler.NewQuizHandler(quizService),
		WebSocket:  handler.NewWebSocketHandler(hub, zl.Named("websocket")),
	}, write...)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
