package main

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/cache"
	"Inkwell/internal/config"
	"Inkwell/internal/handlers"
	"Inkwell/internal/metrics"
	"Inkwell/internal/middleware"
	"Inkwell/internal/repo"
	"Inkwell/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuthSecret == config.DefaultAuthSecret {
		sugar.Warnw("using default auth secret, set AUTH_SECRET in production")
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// кеш не обязателен: без Redis сервис работает напрямую с БД
	store := cache.NewRedisStore(cfg.RedisURL)
	if err := store.Connect(ctx); err != nil {
		sugar.Warnw("redis unavailable, caching disabled", "url", cfg.RedisURL, "error", err)
	}
	defer func() {
		if err := store.Disconnect(); err != nil {
			sugar.Warnw("failed to close redis connection", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	tokens := auth.NewTokenManager(cfg.AuthSecret, cfg.TokenTTL)

	userRepo := repo.NewUserRepository(gormDB)
	categoryRepo := repo.NewCategoryRepository(gormDB)
	tagRepo := repo.NewTagRepository(gormDB)

	userService := service.NewUserService(userRepo, tokens, cfg.OwnerEmail)
	noteService := service.NewNoteService(repo.NewNoteRepository(gormDB), categoryRepo, tagRepo)

	h := handlers.NewHandler(handlers.Deps{
		Users:      userService,
		Notes:      noteService,
		Comments:   service.NewCommentService(repo.NewCommentRepository(gormDB), noteService),
		Categories: service.NewCategoryService(categoryRepo),
		Tags:       service.NewTagService(tagRepo),
		Tokens:     tokens,
		Cache:      store,
		DB:         handlers.PingFunc(func(context.Context) error { return repo.Ping(gormDB) }),
		Metrics:    collector,
		Gatherer:   reg,
	}, sugar, cfg)
	defer h.Close()

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"RedisURL", cfg.RedisURL,
		"CORSOrigin", cfg.CORSOrigin,
		"TokenTTL", cfg.TokenTTL,
	)

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Errorw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
