package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/redflagduel/arena/internal/adapters/http/api"
	"github.com/redflagduel/arena/internal/adapters/judge"
	"github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/app"
	"github.com/redflagduel/arena/internal/config"
	"github.com/redflagduel/arena/internal/domain/verdict"
	"github.com/redflagduel/arena/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 15 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 10 * time.Second
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to initialize storage", logger.Error(err))
		return
	}
	sessions, err := buildSessions(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to initialize session store", logger.Error(err))
		return
	}

	svc := app.New(
		app.WithLogger(log.Named("app")),
		app.WithStore(store),
		app.WithSessions(sessions),
		app.WithJudge(buildJudge(cfg)),
		app.WithJournalQueueSize(cfg.JournalQueueSize),
		app.WithJournalWorkers(cfg.JournalWorkers),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithMaxFeedLimit(cfg.MaxFeedLimit),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			log.Error(ctx, "failed to stop service", logger.Error(err))
		}
	}()

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// buildStore selects the persistent store backend.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return repository.NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return repository.NewMemoryStore(), nil
	}
}

// buildSessions selects the session ledger backend.
func buildSessions(ctx context.Context, cfg *config.Config) (sessionstore.Store, error) {
	switch cfg.Sessions {
	case config.SessionsRedis:
		ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
		return sessionstore.NewRedisSessions(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			sessionstore.WithTTL(ttl))
	default:
		return sessionstore.NewMemorySessions(), nil
	}
}

// buildJudge selects the flag-or-not judge backend.
func buildJudge(cfg *config.Config) verdict.Judge {
	if cfg.Judge == config.JudgeOpenAI {
		var opts []judge.OpenAIOption
		if cfg.OpenAIModel != "" {
			opts = append(opts, judge.WithModel(cfg.OpenAIModel))
		}
		return judge.NewOpenAIJudge(cfg.OpenAIAPIKey, opts...)
	}
	return verdict.NewHeuristicJudge()
}

// startServiceMetricsUpdater refreshes pool and session gauges on a timer;
// the stats call updates them as a side effect.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = svc.Stats(ctx)
		}
	}
}
