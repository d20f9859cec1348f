package session

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/persist"
)

// Clock supplies wall-clock time to the driver.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DriverOptions configures a Driver. Zero values pick the defaults.
type DriverOptions struct {
	Clock     Clock
	Store     persist.Store // nil disables persistence
	Logger    *log.Logger
	FrameTime time.Duration
}

// Driver runs a Session in real time. Callers on any goroutine queue
// commands; one frame goroutine applies them, steps the world and publishes
// snapshots. A second goroutine paces automatic fire while the game is
// being played.
type Driver struct {
	session   *Session
	clock     Clock
	store     persist.Store
	logger    *log.Logger
	frameTime time.Duration

	snapshot      atomic.Pointer[Snapshot]
	commands      chan func(*Session)
	fireTicks     chan struct{}
	weaponChanged chan struct{}
}

// NewDriver wraps s. The driver takes ownership of s; do not call its
// methods directly afterwards.
func NewDriver(s *Session, opts DriverOptions) *Driver {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	frameTime := opts.FrameTime
	if frameTime <= 0 {
		frameTime = config.FrameTime
	}

	d := &Driver{
		session:       s,
		clock:         clock,
		store:         opts.Store,
		logger:        logger,
		frameTime:     frameTime,
		commands:      make(chan func(*Session), config.CommandBuffer),
		fireTicks:     make(chan struct{}, 1),
		weaponChanged: make(chan struct{}, 1),
	}
	d.snapshot.Store(s.Snapshot())
	return d
}

// Run loads the saved record, then plays until ctx is cancelled. The record
// is saved on game over, on pause and on return.
func (d *Driver) Run(ctx context.Context) error {
	d.load()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.frameLoop(ctx, g)
	})
	return g.Wait()
}

// Snapshot returns the latest published world state. Safe for concurrent use.
func (d *Driver) Snapshot() *Snapshot {
	return d.snapshot.Load()
}

// do queues a command for the frame goroutine. Commands are dropped when
// the queue is full.
func (d *Driver) do(cmd func(*Session)) {
	select {
	case d.commands <- cmd:
	default:
		d.logger.Warn("command queue full, dropping command")
	}
}

// SetPlayerX steers the ship.
func (d *Driver) SetPlayerX(x float64) {
	d.do(func(s *Session) { s.SetPlayerX(x) })
}

// FireSpecial shoots the special missile at once.
func (d *Driver) FireSpecial() {
	d.do(func(s *Session) {
		if err := s.FireSpecial(); err != nil {
			d.logger.Error("fire special", "err", err)
		}
	})
}

// BeginCharge starts charging the special missile.
func (d *Driver) BeginCharge() {
	d.do(func(s *Session) { s.BeginCharge() })
}

// CancelCharge drops a charge in progress.
func (d *Driver) CancelCharge() {
	d.do(func(s *Session) { s.CancelCharge() })
}

// SetActiveMissile validates id and queues the selection.
func (d *Driver) SetActiveMissile(id catalog.MissileType) error {
	if err := d.session.ValidateMissile(id); err != nil {
		return err
	}
	d.do(func(s *Session) {
		if err := s.SetActiveMissile(id); err != nil {
			d.logger.Error("select missile", "err", err)
		}
	})
	return nil
}

// Pause freezes the world.
func (d *Driver) Pause() {
	d.do(func(s *Session) { s.Pause() })
}

// Resume continues a paused world.
func (d *Driver) Resume() {
	d.do(func(s *Session) { s.Resume() })
}

// Reset starts a new game.
func (d *Driver) Reset() {
	d.do(func(s *Session) { s.Reset() })
}

// Resize changes the play area.
func (d *Driver) Resize(width, height float64) {
	d.do(func(s *Session) { s.Resize(width, height) })
}

// AckEffect marks a pending explosion or spark as played.
func (d *Driver) AckEffect(id string) {
	d.do(func(s *Session) { s.AckEffect(id) })
}

func (d *Driver) frameLoop(ctx context.Context, g *errgroup.Group) error {
	ticker := time.NewTicker(d.frameTime)
	defer ticker.Stop()

	var (
		stopFire  context.CancelFunc
		fireEpoch uint64
		weapon    catalog.MissileType
	)
	defer func() {
		if stopFire != nil {
			stopFire()
		}
		d.save("shutdown")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		d.drainCommands()
		d.drainFireTicks()
		if err := d.session.Step(d.clock.Now()); err != nil {
			d.logger.Error("step failed", "err", err)
			return err
		}
		snap := d.session.Snapshot()
		d.snapshot.Store(snap)

		switch {
		case snap.Playing() && (stopFire == nil || snap.Epoch != fireEpoch):
			if stopFire != nil {
				stopFire()
			}
			fireCtx, cancel := context.WithCancel(ctx)
			stopFire, fireEpoch, weapon = cancel, snap.Epoch, snap.Weapon
			g.Go(func() error {
				return d.fireLoop(fireCtx)
			})
		case !snap.Playing() && stopFire != nil:
			stopFire()
			stopFire = nil
			if snap.GameOver {
				d.save("game over")
			} else {
				d.save("pause")
			}
		case snap.Playing() && snap.Weapon != weapon:
			weapon = snap.Weapon
			select {
			case d.weaponChanged <- struct{}{}:
			default:
			}
		}
	}
}

// fireLoop posts a fire tick every fire interval of the current weapon and
// starts over as soon as the weapon changes.
func (d *Driver) fireLoop(ctx context.Context) error {
	for {
		timer := time.NewTimer(d.Snapshot().FireInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-d.weaponChanged:
			timer.Stop()
		case <-timer.C:
			select {
			case d.fireTicks <- struct{}{}:
			default:
			}
		}
	}
}

func (d *Driver) drainCommands() {
	for {
		select {
		case cmd := <-d.commands:
			cmd(d.session)
		default:
			return
		}
	}
}

func (d *Driver) drainFireTicks() {
	select {
	case <-d.fireTicks:
		if err := d.session.FireAutomatic(); err != nil {
			d.logger.Error("automatic fire", "err", err)
		}
	default:
	}
}

func (d *Driver) load() {
	if d.store == nil {
		return
	}
	rec, ok, err := d.store.Load()
	if err != nil {
		d.logger.Warn("failed to load record, starting fresh", "err", err)
		return
	}
	if !ok {
		return
	}
	d.session.Restore(rec)
	d.snapshot.Store(d.session.Snapshot())
	d.logger.Info("record restored", "score", rec.Score, "health", rec.Health)
}

func (d *Driver) save(reason string) {
	if d.store == nil {
		return
	}
	rec := d.session.Record()
	if err := d.store.Save(rec); err != nil {
		d.logger.Error("failed to save record", "reason", reason, "err", err)
		return
	}
	d.logger.Debug("record saved", "reason", reason, "score", rec.Score, "health", rec.Health)
}
