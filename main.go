// dungeoncrawl is a terminal dungeon crawler. Run it in a terminal; the log
// goes to <data dir>/crawl.log unless log.file is set.
package main

import (
	"context"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/game"
	"dungeoncrawl/internal/logger"
	"dungeoncrawl/internal/telemetry"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (default $CRAWL_CONFIG)")
	seed := flag.Int64("seed", 0, "Level seed (overrides config; 0 keeps it)")
	flag.Parse()

	if err := run(*configPath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	// The screen owns stdout, so logs always go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		dir, err := config.DataDir()
		if err != nil {
			return fmt.Errorf("locate data dir: %w", err)
		}
		logPath = filepath.Join(dir, "crawl.log")
	}
	f, err := logger.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: f})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Insecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	go func() {
		<-ctx.Done()
		screen.Fini()
	}()

	sess, err := game.NewSession(screen, cfg, game.SessionOptions{
		Sink:     game.LogSink{Entry: logger.Component("messages")},
		SaveRuns: true,
	})
	if err != nil {
		return err
	}
	return sess.Run(ctx)
}
