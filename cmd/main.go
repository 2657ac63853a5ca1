package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"fabric-inspector/config"
	"fabric-inspector/internal/api/rest"
	"fabric-inspector/internal/api/telegram"
	"fabric-inspector/internal/container"
	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
	"fabric-inspector/internal/infrastructure/storage"
	"fabric-inspector/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	container.SetupLogger(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Артефакты модели: без них сервис не стартует
	artifacts, err := container.NewArtifactSource(cfg)
	if err != nil {
		log.Fatalf("Failed to create artifact source: %v", err)
	}
	pipeline, err := container.LoadPipeline(ctx, artifacts, container.PipelineOptionsFrom(cfg))
	if err != nil {
		var loadErr *entity.ArtifactLoadError
		if errors.As(err, &loadErr) {
			log.Fatalf("Failed to load model artifact %q: %v", loadErr.Name, loadErr.Err)
		}
		log.Fatalf("Failed to load pipeline: %v", err)
	}

	// Хранилище пользователей
	var userRepo port.UserRepository = storage.NewMemoryUserRepository()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		userRepo = storage.NewRedisUserRepository(rdb)
	}

	// Журнал проверок
	var journal port.InspectionJournal = storage.NewMemoryJournal(storage.DefaultJournalCapacity)
	if cfg.DatabaseURL != "" {
		pg, err := storage.ConnectPostgresJournal(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		journal = pg
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, pipeline, journal, appMetrics)

	errCh := make(chan error, 2)
	running := 0

	if cfg.HTTPEnabled() {
		server := rest.NewServer(appContainer.InspectionService, reg)
		running++
		go func() { errCh <- server.Run(ctx, cfg.HTTPAddr) }()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		running++
		slog.Info("bot is running")
		go func() { errCh <- bot.Run(ctx) }()
	}

	for ; running > 0; running-- {
		if err := <-errCh; err != nil {
			slog.Error("component stopped with error", "err", err)
			stop()
		}
	}
	slog.Info("shutdown complete")
}
