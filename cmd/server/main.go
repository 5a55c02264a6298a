package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"deskmate-server/internal/agent"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/infrastructure/storage"
	"deskmate-server/internal/network"
	"deskmate-server/internal/server"
	"deskmate-server/internal/version"
	"deskmate-server/pkg/logger"
	"deskmate-server/pkg/room"
	"deskmate-server/pkg/utils"

	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	var (
		configPath string
		layoutPath string
		seed       string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	flag.StringVar(&layoutPath, "layout", "", "Path to YAML room layout (overrides config)")
	flag.StringVar(&seed, "seed", "", "Wander seed: a number or any name (empty for random)")
	flag.Parse()

	logger.Log.Info("Starting DeskMate navigation server...")
	logger.Log.Info(version.String())

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if layoutPath != "" {
		cfg.Layout.Path = layoutPath
	}
	if seed != "" {
		cfg.Wander.Seed = utils.ParseSeed(seed)
	}

	conv, err := gridconv.NewConverter(cfg.GridLayout())
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid grid layout")
	}

	store, err := openStore(cfg, conv)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load room")
	}

	nav, err := engine.NewNavigationService(cfg, store)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create navigation service")
	}

	hub := network.NewBroadcaster()
	pub := network.NewPublisher(hub, store)
	srv := server.New(nav, pub, store, cfg.Server)
	wanderer := agent.NewWanderer(nav, pub, cfg.Wander)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return wanderer.Run(ctx) })
	if cfg.Layout.Path != "" && cfg.Layout.Watch {
		watcher := storage.NewLayoutWatcher(cfg.Layout.Path, store, conv)
		g.Go(func() error { return watcher.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}

// openStore загружает layout-файл из конфига или встроенную комнату, если файл не задан.
func openStore(cfg engine.Config, conv *gridconv.Converter) (*storage.MemoryStore, error) {
	if cfg.Layout.Path == "" {
		logger.Log.Info("No layout configured, using default room")
		snap, err := room.DefaultLayout()
		if err != nil {
			return nil, err
		}
		return storage.NewMemoryStore(snap), nil
	}

	snap, err := storage.LoadLayout(cfg.Layout.Path, conv)
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("path", cfg.Layout.Path).WithField("objects", len(snap.Objects)).Info("Layout loaded")
	return storage.NewMemoryStore(snap), nil
}
