package main

import (
	"context"
	"fmt"
	"os"

	"bigtrip/cmd"
	"bigtrip/internal/api"
	"bigtrip/internal/db"
	"bigtrip/internal/model"
	"bigtrip/internal/store"
	"bigtrip/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("bigtrip", config.Version)
		return
	}

	// The terminal belongs to the UI, so logs go to a file
	logger, err := newLogger(config.LogPath, config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	database, err := db.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prefsStore := db.NewPrefsStore(database)
	prefs, err := prefsStore.Load(ctx, db.Prefs{
		Filter:   model.FilterEverything,
		Pictures: config.Pictures,
	})
	if err != nil {
		logger.Warn("failed to load preferences", zap.Error(err))
	}

	client := api.NewClient(config.Endpoint, config.Token, config.Timeout, logger)
	sched := ui.NewScheduler()
	offers := store.NewOffersModel(client, sched, logger)
	destinations := store.NewDestinationsModel(client, sched, logger)
	points := store.NewPointsModel(client, sched, store.NewCatalog(offers, destinations), logger)
	filter := store.NewFilterModel(prefs.Filter, logger)

	logger.Info("starting",
		zap.String("version", config.Version),
		zap.String("endpoint", config.Endpoint),
	)

	p := tea.NewProgram(ui.New(ctx, ui.Options{
		Points:       points,
		Offers:       offers,
		Destinations: destinations,
		Filter:       filter,
		Scheduler:    sched,
		Pictures:     client,
		ShowPictures: prefs.Pictures,
		Prefs:        prefsStore,
		Log:          logger,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("app stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
