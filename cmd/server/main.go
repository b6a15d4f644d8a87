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
	"golang.org/x/sync/errgroup"

	"vctbuilder/internal/integrity/cache"
	"vctbuilder/internal/integrity/fetcher"
	integrityhandler "vctbuilder/internal/integrity/handler"
	integritymetrics "vctbuilder/internal/integrity/metrics"
	integrityservice "vctbuilder/internal/integrity/service"
	"vctbuilder/internal/integrity/tracer"
	"vctbuilder/internal/platform/config"
	"vctbuilder/internal/platform/database"
	"vctbuilder/internal/platform/health"
	"vctbuilder/internal/platform/httpserver"
	"vctbuilder/internal/platform/kafka"
	"vctbuilder/internal/platform/kafka/producer"
	"vctbuilder/internal/platform/logger"
	platformmetrics "vctbuilder/internal/platform/metrics"
	platformredis "vctbuilder/internal/platform/redis"
	"vctbuilder/internal/project/events"
	projecthandler "vctbuilder/internal/project/handler"
	projectmetrics "vctbuilder/internal/project/metrics"
	projectservice "vctbuilder/internal/project/service"
	"vctbuilder/internal/project/store"
	httptransport "vctbuilder/internal/transport/http"
	"vctbuilder/internal/vct/editor"
	vcthandler "vctbuilder/internal/vct/handler"
	vctmetrics "vctbuilder/internal/vct/metrics"
	"vctbuilder/migrations"
	"vctbuilder/pkg/platform/circuit"
	request "vctbuilder/pkg/platform/middleware/request"
	"vctbuilder/pkg/platform/validation"
)

// main wires the editor API: session, project persistence, hash service and
// the shared HTTP stack. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing vct editor server",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"project_store", cfg.ProjectStore,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	platform := platformmetrics.New(reg, "vct-server", health.Version)
	healthHandler := health.New(cfg.Environment)

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	projectStore, closeStore, err := buildProjectStore(ctx, cfg, log, healthHandler)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	publisher, closePublisher := buildPublisher(ctx, cfg, log, healthHandler)
	closers = append(closers, closePublisher)

	redisCfg := platformredis.DefaultConfig(cfg.RedisURL)
	redisCfg.Registerer = reg
	rc, err := platformredis.New(ctx, redisCfg)
	if err != nil {
		// The hash cache falls back to process memory.
		log.Warn("redis unavailable, hash cache is process local", "error", err)
		rc = nil
	}
	if rc != nil {
		healthHandler.RegisterCheck("redis", rc.Health)
		closers = append(closers, func() { _ = rc.Close() })
	}

	session := editor.NewSession()
	projects := projectservice.New(session, projectStore,
		projectservice.WithLogger(log),
		projectservice.WithEvents(publisher),
		projectservice.WithMetrics(projectmetrics.New(reg)),
	)

	im := integritymetrics.New(reg)
	hashes := integrityservice.New(
		fetcher.New(fetcher.Config{
			Timeout:  cfg.Hash.Timeout,
			MaxBytes: cfg.Hash.MaxBytes,
			Rate:     cfg.Hash.Rate,
			Burst:    cfg.Hash.Burst,
		}),
		integrityservice.WithCache(buildHashCache(cfg, rc, im, log)),
		integrityservice.WithTracer(tracer.NewOTel(nil)),
		integrityservice.WithMetrics(im),
		integrityservice.WithLogger(log),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		AllowedOrigin:  cfg.AllowedOrigin,
		Timeout:        cfg.Hash.Timeout + 15*time.Second,
		BodyLimit:      validation.MaxBodySize,
		Latency:        request.NewMetrics(reg),
		Requests:       platform,
		MetricsHandler: platformmetrics.Handler(reg),
	},
		healthHandler,
		vcthandler.New(session, hashes, log, vctmetrics.New(reg)),
		projecthandler.New(projects, log),
		integrityhandler.New(hashes, log),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(cfg.Addr, router), log)
	})
	if rc != nil {
		g.Go(func() error {
			rc.RunStatsLoop(gctx, 15*time.Second)
			return nil
		})
	}
	return g.Wait()
}

func buildProjectStore(ctx context.Context, cfg config.Server, log *slog.Logger, h *health.Handler) (projectservice.Store, func(), error) {
	switch cfg.ProjectStore {
	case config.StoreFile:
		fs, err := store.NewFileStore(cfg.ProjectsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open projects file: %w", err)
		}
		log.Info("using file project store", "path", cfg.ProjectsFile)
		return fs, func() {}, nil
	case config.StoreSQLite:
		db, err := store.OpenSQLite(ctx, cfg.ProjectsDB)
		if err != nil {
			return nil, nil, err
		}
		h.RegisterCheck("sqlite", db.Health)
		log.Info("using sqlite project store", "path", cfg.ProjectsDB)
		return db, func() { _ = db.Close() }, nil
	case config.StorePostgres:
		pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if pool == nil {
			return nil, nil, fmt.Errorf("VCT_PROJECT_STORE=postgres requires DATABASE_URL")
		}
		if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
			_ = pool.Close()
			return nil, nil, err
		}
		h.RegisterCheck("postgres", pool.Health)
		log.Info("using postgres project store")
		return store.NewPostgres(pool.DB()), func() { _ = pool.Close() }, nil
	default:
		log.Info("using in-memory project store")
		return store.NewInMemoryStore(), func() {}, nil
	}
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger, h *health.Handler) (projectservice.EventPublisher, func()) {
	brokers := kafka.SplitBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		return events.NewLogPublisher(log), func() {}
	}

	admin, err := kafka.NewAdmin(brokers)
	if err != nil {
		log.Warn("kafka admin unavailable, logging project events", "error", err)
		return events.NewLogPublisher(log), func() {}
	}
	if err := admin.EnsureTopic(ctx, cfg.EventsTopic, 1, 1); err != nil {
		log.Warn("failed to ensure events topic", "topic", cfg.EventsTopic, "error", err)
	}
	p, err := producer.New(producer.DefaultConfig(brokers), log)
	if err != nil {
		admin.Close()
		log.Warn("kafka producer unavailable, logging project events", "error", err)
		return events.NewLogPublisher(log), func() {}
	}
	h.RegisterCheck("kafka", admin.Check)
	log.Info("publishing project events to kafka", "topic", cfg.EventsTopic)
	return events.NewKafkaPublisher(p, cfg.EventsTopic), func() {
		_ = p.Close()
		admin.Close()
	}
}

func buildHashCache(cfg config.Server, rc *platformredis.Client, m *integritymetrics.Metrics, log *slog.Logger) integrityservice.Cache {
	local := cache.NewMemory(cfg.Hash.CacheTTL)
	if rc == nil {
		return local
	}
	breaker := circuit.New("hash-cache",
		circuit.WithFailureThreshold(5),
		circuit.WithCooldown(30*time.Second),
		circuit.WithStateChange(func(name string, from, to circuit.State) {
			m.SetBreakerState(name, int(to))
			log.Warn("hash cache breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		}),
	)
	return cache.NewGuarded(cache.NewRedis(rc.Client, cfg.Hash.CacheTTL), local, breaker, m, log)
}
