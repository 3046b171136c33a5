// Package main provides the numguess binary: a terminal number guessing game.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/cory-johannsen/numguess/internal/config"
	"github.com/cory-johannsen/numguess/internal/frontend/console"
	"github.com/cory-johannsen/numguess/internal/game/secret"
	"github.com/cory-johannsen/numguess/internal/game/session"
	"github.com/cory-johannsen/numguess/internal/observability"
	"github.com/cory-johannsen/numguess/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to optional YAML configuration file")
	seed := flag.Int64("seed", config.SeedFlagKeep, "secret seed override; 0 keeps game.seed, -1 forces crypto/rand")
	color := flag.String("color", "", "colour mode override: auto, always, never")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg, err = cfg.WithFlags(*seed, *color)
	if err != nil {
		log.Fatalf("applying flags: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := secret.NewCryptoSource()
	if cfg.Game.Seed != 0 {
		src = secret.NewSeededSource(cfg.Game.Seed)
		logger.Info("using seeded secret source", zap.Int64("seed", cfg.Game.Seed))
	}

	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	conn := console.NewConn(os.Stdin, os.Stdout)
	game := session.NewGame(conn, session.Options{
		Source: src,
		Styler: console.Styler{Enabled: cfg.Game.UseColor(tty)},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var finished atomic.Bool
	lc := server.NewLifecycle(logger)
	lc.Add("game", &server.FuncService{
		StartFn: func() error {
			played, err := game.Run(ctx)
			finished.Store(true)
			logger.Info("game ended",
				zap.Int("sessions", played),
				zap.Duration("elapsed", time.Since(start)),
			)
			if errors.Is(err, io.EOF) {
				return game.Farewell()
			}
			return err
		},
		StopFn: func() {
			if !finished.Load() {
				_ = game.Farewell()
			}
			cancel()
		},
	})

	if err := lc.Run(ctx); err != nil {
		logger.Error("game failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
