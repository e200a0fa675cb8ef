package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/samhallam03/GettingReadySnake/internal/auth"
	"github.com/samhallam03/GettingReadySnake/internal/config"
	"github.com/samhallam03/GettingReadySnake/internal/httpserver"
	"github.com/samhallam03/GettingReadySnake/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(getEnv("SNAKE_CONFIG", config.DefaultPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	tokens, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up play tokens")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(ctx, mem, cfg, tokens)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).
			Int("gridWidth", cfg.Board.GridWidth()).
			Int("gridHeight", cfg.Board.GridHeight()).
			Dur("tick", cfg.TickInterval).
			Msg("starting snake server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		sweep(ctx, mem, cfg.SweepInterval, cfg.IdleTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("bye")
}

// sweep evicts idle and finished sessions until ctx is done.
func sweep(ctx context.Context, st store.Store, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ids := st.Sweep(idle); len(ids) > 0 {
				log.Info().Strs("games", ids).Int("remaining", st.Len()).Msg("swept sessions")
			}
		}
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
