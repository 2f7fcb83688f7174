package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"trenchmap/internal/basemap"
	"trenchmap/internal/config"
	"trenchmap/internal/geom"
	"trenchmap/internal/gps"
	"trenchmap/internal/logging"
	"trenchmap/internal/router"
	"trenchmap/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := tui.Options{
		Center:         geom.GeoPoint{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng},
		MetersPerPixel: cfg.Map.MetersPerPixel,
		Interaction: router.Options{
			HitThresholdPx: cfg.Interaction.HitThresholdPx,
			HandleRadiusPx: cfg.Interaction.HandleRadiusPx,
			RotateModifier: router.Modifier(cfg.Interaction.RotateModifier),
		},
		RotateStepDeg: cfg.Interaction.RotateStepDeg,
		ExportDir:     cfg.Export.Dir,
		WorkOrderNo:   cfg.Session.WorkOrderNo,
		WorkType:      cfg.Session.WorkType,
		Log:           logger,
	}
	opts.GPS, opts.GPSErr = newSource(cfg.GPS, logger).Subscribe(ctx)
	if opts.GPSErr != nil {
		logger.Warn("position source unavailable", "source", cfg.GPS.Source, "err", opts.GPSErr)
	}
	if cfg.Map.Basemap != "" {
		l, err := basemap.Load(cfg.Map.Basemap)
		if err != nil {
			logger.Error("basemap", "path", cfg.Map.Basemap, "err", err)
		} else {
			opts.Basemap = l
		}
	}

	var m tea.Model
	if len(os.Args) > 1 {
		m = tui.NewWithPath(opts, os.Args[1])
	} else {
		m = tui.New(opts)
	}
	logger.Info("starting", "gps", cfg.GPS.Source, "export_dir", cfg.Export.Dir)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func newSource(cfg config.GPSConfig, logger *slog.Logger) gps.Source {
	switch cfg.Source {
	case "gpsd":
		return gps.NewGPSD(cfg.Addr, logger)
	case "replay":
		return gps.NewReplay(cfg.ReplayFile, cfg.ReplayInterval)
	}
	return gps.None{}
}
