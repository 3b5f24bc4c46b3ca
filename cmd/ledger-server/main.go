package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pointsbook/internal/cache"
	"pointsbook/internal/config"
	"pointsbook/internal/logging"
	"pointsbook/internal/store"
	httptransport "pointsbook/internal/transport/http"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	var lb *cache.Leaderboard
	if cfg.Server.RedisAddr != "" {
		ttl := time.Duration(cfg.Server.LeaderboardTTLS) * time.Second
		lb, err = cache.NewLeaderboard(cfg.Server.RedisAddr, ttl)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Server.RedisAddr).Msg("redis init failed")
		}
		defer lb.Close()
		log.Info().Str("addr", cfg.Server.RedisAddr).Dur("ttl", ttl).Msg("leaderboard cache enabled")
	}

	r := httptransport.NewRouter(st, cfg.Server, cfg.Economy, lb)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
