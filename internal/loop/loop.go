// Package loop wires the catalog, a session, its driver and a terminal
// client into one playable game.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	loopconfig "github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/client"
	"github.com/tomz197/skyraid/internal/loop/session"
	"github.com/tomz197/skyraid/internal/persist"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvTables            = "SKYRAID_TABLES"
	EnvEnemiesMultiplier = "SKYRAID_ENEMIES_MULTIPLIER"
	EnvSpawnScale        = "SKYRAID_SPAWN_SCALE"
	EnvSaveApp           = "SKYRAID_SAVE_APP"
)

// DefaultSaveApp is the gdata application name used for saved records.
const DefaultSaveApp = "skyraid"

// Options configures one game. Zero values pick the defaults.
type Options struct {
	Catalog            *catalog.Catalog
	Store              persist.Store // nil plays without saving
	Logger             *log.Logger
	Username           string
	TermSizeFunc       draw.TermSizeFunc
	Shutdown           <-chan struct{}
	EnemiesMultiplier  int
	SpawnIntervalScale float64
}

// OptionsFromEnv loads the gameplay tables and tuning from the environment.
func OptionsFromEnv() (Options, error) {
	cat, err := catalog.Load(config.GetEnv(EnvTables, ""))
	if err != nil {
		return Options{}, fmt.Errorf("load catalog: %w", err)
	}
	return Options{
		Catalog:            cat,
		EnemiesMultiplier:  config.GetEnvInt(EnvEnemiesMultiplier, 1),
		SpawnIntervalScale: config.GetEnvFloat(EnvSpawnScale, 1),
	}, nil
}

// Run plays one game on r and w until the player quits or ctx is done.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	sink := session.NewChannelSink(loopconfig.EventBuffer)
	s := session.New(session.Options{
		Catalog:            cat,
		Sink:               sink,
		Logger:             logger,
		EnemiesMultiplier:  opts.EnemiesMultiplier,
		SpawnIntervalScale: opts.SpawnIntervalScale,
	})
	d := session.NewDriver(s, session.DriverOptions{
		Store:  opts.Store,
		Logger: logger,
	})
	c := client.NewClient(d, sink.C, cat, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Logger:       logger,
		Shutdown:     opts.Shutdown,
	})
	return c.Run(ctx)
}
