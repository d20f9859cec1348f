package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/quasilyte/gdata/v2"

	"github.com/tomz197/skyraid/internal/config"
	applog "github.com/tomz197/skyraid/internal/logging"
	"github.com/tomz197/skyraid/internal/loop"
	loopconfig "github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/persist"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// server hosts one independent game per SSH session.
type server struct {
	logger   *log.Logger
	base     loop.Options
	saves    *gdata.Manager // nil when saving is unavailable
	slots    saveSlots
	shutdown chan struct{}
	sessions sync.WaitGroup
}

func main() {
	logger := applog.New(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	base, err := loop.OptionsFromEnv()
	if err != nil {
		logger.Fatal("failed to load game options", "err", err)
	}

	srv := &server{
		logger:   logger,
		base:     base,
		shutdown: make(chan struct{}),
	}
	srv.saves, err = persist.OpenGdata(config.GetEnv(loop.EnvSaveApp, loop.DefaultSaveApp))
	if err != nil {
		logger.Warn("saving disabled", "err", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Tell every player, then give them time to read it.
	close(srv.shutdown)
	srv.waitSessions(time.Duration(loopconfig.ShutdownDisplaySeconds+5) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs a single-player game for the session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		srv.sessions.Add(1)
		defer srv.sessions.Done()

		srv.logger.Info("New game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		opts := srv.base
		opts.Logger = srv.logger
		opts.Username = sess.User()
		opts.TermSizeFunc = sizeTracker.getSize
		opts.Shutdown = srv.shutdown
		if srv.saves != nil {
			if release, ok := srv.slots.acquire(sess.User()); ok {
				defer release()
				opts.Store = persist.NewGdataStore(srv.saves, sess.User())
			} else {
				srv.logger.Warn("save slot in use, playing without saving", "user", sess.User())
			}
		}

		if err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, opts); err != nil {
			srv.logger.Error("Game error", "user", sess.User(), "err", err)
		}

		srv.logger.Info("Session ended", "user", sess.User())
		next(sess)
	}
}

// waitSessions waits for running games to finish, at most timeout.
func (srv *server) waitSessions(timeout time.Duration) {
	finished := make(chan struct{})
	go func() {
		srv.sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		srv.logger.Info("All players disconnected")
	case <-time.After(timeout):
		srv.logger.Warn("Timed out waiting for players")
	}
}

// saveSlots hands each user's save slot to one session at a time, so two
// connections by the same user cannot overwrite each other's record.
type saveSlots struct {
	mu   sync.Mutex
	held map[string]bool
}

func (s *saveSlots) acquire(user string) (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[user] {
		return nil, false
	}
	if s.held == nil {
		s.held = make(map[string]bool)
	}
	s.held[user] = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.held, user)
	}, true
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}
