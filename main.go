package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soocke/pixel-annotate-go/app"
	"github.com/soocke/pixel-annotate-go/app/desktop"
	"github.com/soocke/pixel-annotate-go/config"
	"github.com/soocke/pixel-annotate-go/debug"
	"github.com/soocke/pixel-annotate-go/internal/statusapi"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to the JSON config file")
	imagePath := flag.String("image", "", "image to open on start")
	headless := flag.Bool("headless", false, "run without a window and print detections as JSON lines")
	outDir := flag.String("out", "", "headless: directory for rendered result PNGs")
	timeout := flag.Duration("timeout", time.Minute, "headless: overall deadline")
	flag.Parse()

	// Base config from file, then .env next to it and the process environment.
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(filepath.Join(filepath.Dir(*cfgPath), ".env")); err != nil {
		fmt.Fprintf(os.Stderr, "config env: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		err := app.RunHeadless(ctx, cfg, *cfgPath, app.HeadlessOptions{
			ImagePath: *imagePath,
			OutDir:    *outDir,
			Timeout:   *timeout,
		}, os.Stdout, logger)
		if err != nil {
			logger.Error("headless run failed", "error", err)
			stop()
			os.Exit(1)
		}
		return
	}

	application := desktop.NewApp(ctx, "Pixel Annotate", 1000, 800, cfg, *cfgPath, logger)
	c := application.Container()
	if cfg.StatusAddr != "" && c.Store != nil {
		statusapi.New(cfg.StatusAddr, c.Store, logger).Start(ctx)
	}
	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger, debug.Gauge{Name: "canvas_items", Value: c.Canvas.Len})
		debug.StartMemLogger(ctx, 10*time.Second, logger)
	}
	application.Start(*imagePath)
}
