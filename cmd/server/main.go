package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/St1cky1/todo-service/internal/api"
	"github.com/St1cky1/todo-service/internal/api/handlers"
	"github.com/St1cky1/todo-service/internal/config"
	"github.com/St1cky1/todo-service/internal/infrastructure/auth"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"github.com/St1cky1/todo-service/internal/usecase"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// Хранилище подключается лениво, при первом запросе
	store, err := newStore(cfg.Store)
	if err != nil {
		logger.Error("failed to init store", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("store configured", slog.String("driver", cfg.Store.Driver))

	// RabbitMQ необязателен: без URL события не публикуются
	var (
		rabbitMQ  *client.RabbitMQClient
		publisher usecase.EventPublisher
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ = client.NewRabbitMQClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		publisher = rabbitMQ
		logger.Info("task events enabled", slog.String("queue", rabbitMQ.QueueName()))
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		TokenTTL:      cfg.JWT.TTL,
		RememberMeTTL: cfg.JWT.RememberTTL,
	})
	passwordManager := auth.NewPasswordManager(cfg.Bcrypt.Cost)

	// Инициализируем сервисы
	taskService := usecase.NewTaskService(store.tasks, publisher, logger)
	authService := usecase.NewAuthService(store.users, passwordManager, jwtManager)

	router := api.NewRouter(
		handlers.NewTaskHandler(taskService, jwtManager, cfg.ExposeErrorDetails, logger),
		handlers.NewAuthHandler(authService, cfg.ExposeErrorDetails, logger),
		api.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Logger:         logger,
			Store:          store.health,
		},
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Info("http server started", slog.String("addr", cfg.HTTP.Addr), slog.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Клиенты закрываются только после остановки HTTP сервера
	httpStopped := make(chan struct{})
	operations := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			defer close(httpStopped)
			logger.Info("shutting down http server")
			return server.Shutdown(ctx)
		},
		"store": func(ctx context.Context) error {
			<-httpStopped
			return store.close(ctx)
		},
	}
	if rabbitMQ != nil {
		operations["rabbitmq"] = func(ctx context.Context) error {
			<-httpStopped
			return rabbitMQ.Close(ctx)
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Shutdown.Timeout, operations)

	exitCode := <-wait
	logger.Info("service stopped", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
