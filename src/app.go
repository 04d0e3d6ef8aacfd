package main

import (
	"fmt"
	"log/slog"

	"github.com/contre95/lxbridge/src/features/bridge"
	"github.com/contre95/lxbridge/src/features/config"
	"github.com/contre95/lxbridge/src/features/logging"
	"github.com/contre95/lxbridge/src/features/metadata"
	"github.com/contre95/lxbridge/src/features/metrics"
	"github.com/contre95/lxbridge/src/features/opening"
	"github.com/contre95/lxbridge/src/features/tasks"
	"github.com/contre95/lxbridge/src/infra/artwork"
	"github.com/contre95/lxbridge/src/infra/mediastore"
	"github.com/contre95/lxbridge/src/infra/tag"
)

// application holds the wired components shared by every command.
type application struct {
	cfg      *config.Manager
	metrics  *metrics.Metrics
	store    *mediastore.SqliteStore
	emitter  *bridge.Emitter
	router   *opening.Router
	metadata *metadata.Service
}

func newApplication() (*application, error) {
	// Load configuration
	cfgManager, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup default logger with slog
	slog.SetDefault(logging.SetupLogger(cfgManager))

	appMetrics := metrics.NewMetrics()

	// Create the content index
	store, err := mediastore.NewSqliteStore(cfgManager.Get().MediaStore.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content index: %w", err)
	}

	// Create the opening pipeline
	emitter := bridge.NewEmitter(appMetrics)
	router := opening.NewRouter(opening.NewAudioFilter(), opening.NewResolver(store), emitter, cfgManager, appMetrics)

	// Create the metadata service
	runner := tasks.NewRunner(cfgManager.Get().Tasks.Workers)
	slog.Debug("Task runner ready", "workers", runner.Workers())
	artworkService := artwork.NewService(cfgManager, appMetrics)
	metadataService := metadata.NewService(tag.NewCodec(), artworkService, tag.NewFallbackReader(), store, runner, appMetrics)

	return &application{
		cfg:      cfgManager,
		metrics:  appMetrics,
		store:    store,
		emitter:  emitter,
		router:   router,
		metadata: metadataService,
	}, nil
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Failed to close content index", "error", err)
	}
}
