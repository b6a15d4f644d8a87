package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	assethandler "vctbuilder/internal/assets/handler"
	assetmetrics "vctbuilder/internal/assets/metrics"
	assetservice "vctbuilder/internal/assets/service"
	assetstore "vctbuilder/internal/assets/store"
	"vctbuilder/internal/platform/config"
	"vctbuilder/internal/platform/health"
	"vctbuilder/internal/platform/httpserver"
	"vctbuilder/internal/platform/logger"
	platformmetrics "vctbuilder/internal/platform/metrics"
	httptransport "vctbuilder/internal/transport/http"
	request "vctbuilder/pkg/platform/middleware/request"
	"vctbuilder/pkg/platform/validation"
)

// main runs the asset upload service. It is separate from the editor API so
// uploads can be hosted next to the static files they produce.
func main() {
	cfg := config.AssetsFromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("asset server exited", "error", err)
		os.Exit(1)
	}
	log.Info("asset server stopped")
}

func run(ctx context.Context, cfg config.Assets, log *slog.Logger) error {
	blobs, err := assetstore.NewBlobs(cfg.UploadDir)
	if err != nil {
		return err
	}
	meta, err := assetstore.OpenMetadata(cfg.MetadataFile)
	if err != nil {
		return fmt.Errorf("open asset metadata: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	platform := platformmetrics.New(reg, "vct-assets", health.Version)

	svc := assetservice.New(meta, blobs, cfg.PublicBaseURL,
		assetservice.WithLogger(log),
		assetservice.WithMetrics(assetmetrics.New(reg)),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("upload_dir", func(context.Context) error {
		_, err := os.Stat(blobs.Dir())
		return err
	})

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		AllowedOrigin:  cfg.AllowedOrigin,
		Timeout:        60 * time.Second,
		BodyLimit:      validation.MaxUploadSize + 1<<20,
		Latency:        request.NewMetrics(reg),
		Requests:       platform,
		MetricsHandler: platformmetrics.Handler(reg),
	},
		healthHandler,
		assethandler.New(svc, blobs.Dir(), log),
	)

	log.Info("initializing asset server",
		"addr", cfg.Addr,
		"upload_dir", cfg.UploadDir,
		"public_base_url", cfg.PublicBaseURL,
	)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), log)
}
