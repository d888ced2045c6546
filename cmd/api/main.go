package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pdfqa/docs"
	"pdfqa/internal/analysis"
	"pdfqa/internal/config"
	"pdfqa/internal/database"
	"pdfqa/internal/database/migration"
	"pdfqa/internal/extractor"
	handlers "pdfqa/internal/http/handler"
	"pdfqa/internal/http/middleware"
	"pdfqa/internal/inference"
	"pdfqa/internal/logging"
	tracing "pdfqa/internal/otel"
	"pdfqa/internal/repository/postgres"
	"pdfqa/internal/service"
	"pdfqa/internal/storage"
)

// @title PDF QA API
// @version 1.0
// @description Upload PDFs, ask questions about them and summarize their sections.
// @BasePath /
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.Location())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}
	inferenceMetrics, err := inference.NewMetrics(reg)
	if err != nil {
		logger.Fatal("failed to register inference metrics", zap.Error(err))
	}

	var archive storage.Storage
	if cfg.MinIO.Enabled() {
		archive, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			logger.Error("archive_disabled", zap.String("endpoint", cfg.MinIO.Endpoint), zap.Error(err))
			archive = nil
		}
	}

	client := inference.NewClient(cfg.Inference, inference.WithMetrics(inferenceMetrics))
	docSvc := service.NewDocumentService(service.Dependencies{
		Files:     storage.NewLocal(cfg.UploadDir),
		Archive:   archive,
		Repo:      postgres.NewDocumentPostgres(db),
		Extractor: extractor.NewPDF(),
		Answerer:  inference.NewQuestionAnswerer(client, cfg.Inference),
		Pipeline:  analysis.NewPipeline(inference.NewSummarizer(client, cfg.Inference), logger),
		Logger:    logger,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(httpMetrics.Handler())
	app.Use(middleware.CORS(cfg.CORSAllowOrigin))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(app, db, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Error("http_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("http_listening", zap.String("addr", addr), zap.String("upload_dir", cfg.UploadDir), zap.Bool("archive_enabled", archive != nil))
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
