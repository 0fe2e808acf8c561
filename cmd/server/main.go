package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gopkg.in/natefinch/lumberjack.v2"

	"entuKaart/internal/config"
	catalog "entuKaart/internal/modules/catalog/infrastructure"
	catalogtransport "entuKaart/internal/modules/catalog/interface"
	feedhandler "entuKaart/internal/modules/feed/application/handler"
	feedusecase "entuKaart/internal/modules/feed/application/usecase"
	feeddomain "entuKaart/internal/modules/feed/domain"
	feed "entuKaart/internal/modules/feed/infrastructure"
	feedtransport "entuKaart/internal/modules/feed/interface"
	frontend "entuKaart/internal/modules/frontend/domain"
	frontendtransport "entuKaart/internal/modules/frontend/interface"
	"entuKaart/internal/platform/broker"
	"entuKaart/internal/shared/auth"
	"entuKaart/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger := setupLogging(cfg.Logging)
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("file", logFile.Filename), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	appConfig, err := frontend.NewAppConfig(frontend.PublicConfig{EntuURL: cfg.Catalog.EntuURL, EsterURL: cfg.Catalog.EsterURL})
	if err != nil {
		slog.Error("frontend config", slog.Any("error", err))
		os.Exit(1)
	}
	api := e.Group("/api")
	api.GET("/config", frontendtransport.NewHandler(appConfig).Config)

	catalogtransport.NewHandler(
		catalog.NewDiscogsClient(cfg.Catalog.DiscogsURL, cfg.Catalog.DiscogsKey, cfg.REST.Timeout, nil),
		catalog.NewEsterClient(cfg.Catalog.EsterURL, cfg.REST.Timeout, nil),
		catalog.NewTemplateClient(cfg.Catalog.EntuURL, cfg.Catalog.EntuKey, cfg.REST.Timeout, nil),
	).Register(api)

	hub := feed.NewHub()
	registry := feed.NewHandlerRegistry()
	broadcastUC := feedusecase.NewBroadcastUseCase(hub)
	for _, topic := range feeddomain.SetupTopics() {
		registry.Register(feedhandler.NewSetupEventHandler(topic, broadcastUC))
	}
	var validator auth.TokenValidator
	if cfg.Feed.JWTSecret != "" {
		validator = auth.NewJWTValidator(cfg.Feed.JWTSecret)
	}
	e.GET("/ws/setup", feedtransport.NewSetupFeedHandler(hub, validator))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.SetupTopic), slog.String("group", cfg.Kafka.GroupID))
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.SetupTopic})

	if static := frontendtransport.StaticSPA(cfg.Server.StaticDir); static != nil {
		e.Use(static)
		slog.Info("serving front end", slog.String("dir", cfg.Server.StaticDir))
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", slog.Any("error", err))
	}
}

func setupLogging(cfg config.LoggingConfig) (*lumberjack.Logger, *slog.Logger) {
	file := logging.NewRotatingFile(cfg.Directory)
	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")
	return file, logger
}
