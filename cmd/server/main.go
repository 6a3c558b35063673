package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"roguedeck/internal/cards"
	"roguedeck/internal/config"
	"roguedeck/internal/game"
	adminhttp "roguedeck/internal/http"
	"roguedeck/internal/logger"
	"roguedeck/internal/server"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	// A broken card config is logged, not fatal: the engine runs with
	// whatever subset loaded. Only the game listener bind can abort startup.
	catalog, err := cards.Load(cfg.CardsFile)
	if err != nil {
		logger.Error("card config failed to load", "file", cfg.CardsFile, "err", err)
	}
	logger.Info("card catalog loaded", "file", cfg.CardsFile, "definitions", len(catalog.Definitions))

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	session := game.NewSession(catalog, rng)
	srv := server.New(session, cfg.ReadTimeout, cfg.ShutdownGrace)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	adminhttp.RegisterRoutes(r, catalog, session, srv)

	adminSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		logger.Info("admin server listening", "port", cfg.HTTPPort)
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server", "err", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(cfg.GameAddr); err != nil {
			logger.Fatal("game server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("interrupt received, shutting down")
	case <-srv.Done():
		// game over shutdown already started
	}

	srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminSrv.Shutdown(ctx); err != nil {
		logger.Error("admin server shutdown", "err", err)
	}

	logger.Info("server exited")
}
