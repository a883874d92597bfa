package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediacore/internal/config"
	handlers "mediacore/internal/http/handler"
	"mediacore/internal/http/middleware"
	"mediacore/internal/otel"
	"mediacore/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Metrics registry shared by the HTTP middleware and the upload counters
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	uploadMetrics, err := handlers.NewUploadMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register upload metrics: %v", err)
	}

	uploadSvc := service.NewUploadService(cfg.Upload)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Cap the buffered request body at the PDF ceiling plus headroom for
		// multipart framing, so oversized uploads are rejected before any
		// decoding starts.
		BodyLimit: int(cfg.Upload.MaxPDFBytes) + (1 << 20),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, uploadSvc, uploadMetrics)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
