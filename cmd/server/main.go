// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/typerace/internal/cache"
	"github.com/jason-s-yu/typerace/internal/config"
	"github.com/jason-s-yu/typerace/internal/database"
	"github.com/jason-s-yu/typerace/internal/handlers"
	"github.com/jason-s-yu/typerace/internal/middleware"
	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/jason-s-yu/typerace/internal/text"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Unknown LOG_LEVEL %q, using info.", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	corpus := text.DefaultCorpus()
	if cfg.DatabaseURL != "" {
		corpus = loadExtraPassages(ctx, cfg.DatabaseURL, corpus, logger)
	}
	texts := text.NewCorpusProvider(corpus, cfg.TextMinWords)
	logger.Infof("Text corpus ready: %v", corpus.Languages())

	var storeOpts []room.StoreOption
	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
			logger.Fatalf("%v", err)
		}
		defer cache.Rdb.Close()
		hostname, _ := os.Hostname()
		storeOpts = append(storeOpts, room.WithCodeReserver(
			cache.NewRedisCodeReserver(cache.Rdb, cache.DefaultKeyPrefix, hostname, cfg.RoomCodeTTL),
		))
		logger.Infof("Reserving room codes in Redis at %s", cfg.RedisAddr)
	}

	store := room.NewStore(cfg.Room, texts, logger, storeOpts...)

	ws := handlers.RaceWSHandler(logger, store)
	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(ws))
	mux.Handle("/healthz", handlers.HealthzHandler(store))
	mux.Handle("/", middleware.LogMiddleware(logger)(handlers.RootHandler(ws)))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
		// Cancelling ctx on shutdown also ends the hijacked WebSocket connections.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", server.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	store.Close()
}

// loadExtraPassages merges sentences from the passages table into corpus. The server
// still starts on the built-in corpus when the database is unavailable.
func loadExtraPassages(ctx context.Context, url string, corpus text.Corpus, logger *logrus.Logger) text.Corpus {
	if err := database.ConnectDB(ctx, url); err != nil {
		logger.Warnf("Skipping extra passages: %v", err)
		return corpus
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx, database.DB, text.PassagesSchema); err != nil {
		logger.Warnf("Skipping extra passages: %v", err)
		return corpus
	}
	extra, err := text.LoadCorpus(ctx, database.DB)
	if err != nil {
		logger.Warnf("Skipping extra passages: %v", err)
		return corpus
	}
	logger.Infof("Loaded extra passages for %d languages.", len(extra))
	return corpus.Merge(extra)
}
