// Package main is the entry point for the fridge viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/app"
	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/internal/inventory"
	"github.com/Faultbox/fridgeview/internal/logger"
	"github.com/Faultbox/fridgeview/internal/telemetry"
	"github.com/Faultbox/fridgeview/internal/viewer"
	"github.com/Faultbox/fridgeview/internal/visual"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("fridgeview starting", zap.String("config", config.ConfigPath()))
	logger.Debug("config loaded", zap.Any("config", cfg))

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newSource(cfg.Assets)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cache := assets.NewCache(source,
		assets.WithTimeout(cfg.Assets.LoadTimeout),
		assets.WithLogger(logger.Named("assets")),
		assets.WithMetrics(assets.NewMetrics(reg)),
	)
	defer cache.Close()

	registry, unknown := assets.NewRegistry(cfg.Assets)
	for _, name := range unknown {
		logger.Warn("ignoring model override for unknown key", zap.String("key", name))
	}

	objs, err := loadInventory(cfg.Scene)
	if err != nil {
		return err
	}

	shell := viewer.New(viewer.Options{
		Camera:       cfg.Camera,
		Gesture:      cfg.Gesture,
		Articulation: cfg.Articulation,
		Factory:      visual.NewFactory(registry, cache, logger.Named("visual")),
		Template:     loadTemplate(ctx, cache, cfg.Assets),
		Logger:       logger.Named("viewer"),
	})
	defer shell.Close()
	logger.SetSession(shell.ID().String())

	shell.OnObjectSelected = func(id string) {
		logger.Info("object tapped", zap.String("id", id))
	}
	shell.OnArticulationToggled = func(partID string, open bool) {
		logger.Info("part toggled", zap.String("part", partID), zap.Bool("open", open))
	}
	shell.OnSelectionChange = func(id string) {
		logger.Debug("selection changed", zap.String("id", id))
	}

	shell.SetObjects(objs)
	visible := inventory.FilterFromConfig(cfg.Scene.Filter).Apply(objs, inventory.IDs(objs))
	shell.SetVisibleSet(visible)
	logger.Info("visible set applied", zap.Int("visible", len(visible)), zap.Int("objects", len(objs)))

	a, err := app.New(cfg, shell)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Metrics.Addr != "" {
		srv := telemetry.New(reg, shell.ID(), logger.Named("telemetry"))
		srv.Start(cfg.Metrics.Addr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Warn("telemetry shutdown failed", zap.Error(err))
			}
		}()
		a.SetTelemetry(srv)
	}

	return a.Run(ctx)
}

// newSource routes plain paths to the asset root and s3:// URIs to MinIO
// when an endpoint is configured.
func newSource(cfg config.AssetsConfig) (assets.Source, error) {
	router := assets.SchemeRouter{"file": assets.NewFileSource(cfg.Root)}
	if cfg.Minio.Endpoint != "" {
		ms, err := assets.NewMinioSource(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		router["s3"] = ms
		logger.Info("object store enabled", zap.String("endpoint", cfg.Minio.Endpoint))
	}
	return router, nil
}

// loadInventory reads the configured inventory file, or returns the
// built-in items when none is set.
func loadInventory(cfg config.SceneConfig) ([]fridge.SceneObject, error) {
	if cfg.InventoryFile == "" {
		return inventory.Default(), nil
	}
	objs, err := inventory.Load(cfg.InventoryFile, cfg.MaxObjects)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	logger.Info("inventory loaded", zap.String("path", cfg.InventoryFile), zap.Int("objects", len(objs)))
	return objs, nil
}

// loadTemplate fetches the external container model. Failures fall back to
// the built-in cabinet.
func loadTemplate(ctx context.Context, cache *assets.Cache, cfg config.AssetsConfig) *model.Node {
	if cfg.ContainerURI == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	tmpl, err := cache.Load(ctx, cfg.ContainerURI)
	if err != nil {
		logger.Warn("container model unavailable, using built-in cabinet",
			zap.String("uri", cfg.ContainerURI), zap.Error(err))
		return nil
	}
	return tmpl
}
