package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/config"
	"github.com/BuzzLyutic/project-tracker/internal/handler"
	"github.com/BuzzLyutic/project-tracker/internal/persist"
	"github.com/BuzzLyutic/project-tracker/internal/repo"
	"github.com/BuzzLyutic/project-tracker/internal/service"
	"github.com/BuzzLyutic/project-tracker/internal/session"
	"github.com/BuzzLyutic/project-tracker/internal/worker"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем логгер
	logger := newLogger(cfg)
	defer logger.Sync()

	// Подключаем хранилище
	store, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	adapter := persist.NewAdapter(store, logger, persist.Options{
		SnapshotKey:    cfg.SnapshotKey,
		CurrentUserKey: cfg.CurrentUserKey,
		Team:           cfg.Team,
	})

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	initial, currentUser := adapter.Bootstrap(loadCtx) // seed сразу пишется в хранилище
	cancelLoad()

	writer := worker.NewWriter(adapter, logger, cfg.PersistTimeout)
	writer.Start(context.Background())

	tracker := service.NewTracker(initial, currentUser, writer, logger, service.Options{
		Roster: cfg.Team,
		Seed:   adapter.Seed,
	})
	h := handler.NewDashboardHandler(tracker, session.New(), logger)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("port", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	// дописываем последний снимок после остановки сервера
	writer.Stop()
	logger.Info("Server stopped successfully!")
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return repo.NewMemoryStore(), func() {}, nil

	case config.DriverSQLite:
		store, err := repo.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Opened SQLite store", zap.String("path", cfg.SQLitePath))
		return store, func() { _ = store.Close() }, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL) // Создаем новое соединение к БД
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
			pool.Close()
			return nil, nil, fmt.Errorf("ping: %w", err)
		}
		store := repo.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("schema: %w", err)
		}
		logger.Info("Successfully connected to the Database!")
		return store, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
