package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/skyraid/internal/config"
	applog "github.com/tomz197/skyraid/internal/logging"
	"github.com/tomz197/skyraid/internal/loop"
	"github.com/tomz197/skyraid/internal/persist"
)

func main() {
	logger, closeLog, err := openLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	opts, err := loop.OptionsFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	opts.Logger = logger
	opts.Store = openStore(logger)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(ctx, reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger logs to SKYRAID_LOG_FILE when set. The terminal belongs to the
// game, so logs are discarded otherwise.
func openLogger() (*log.Logger, func(), error) {
	path := config.GetEnv("SKYRAID_LOG_FILE", "")
	if path == "" {
		return applog.New(io.Discard, "skyraid"), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return applog.New(f, "skyraid"), func() { _ = f.Close() }, nil
}

func openStore(logger *log.Logger) persist.Store {
	manager, err := persist.OpenGdata(config.GetEnv(loop.EnvSaveApp, loop.DefaultSaveApp))
	if err != nil {
		logger.Warn("saving disabled", "err", err)
		return nil
	}
	return persist.NewGdataStore(manager, "local")
}
