package client

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/session"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// Client handles rendering and input for a single connection. It drives
// one session and only talks to it through the driver.
type Client struct {
	driver       *session.Driver
	events       <-chan session.Event
	cat          *catalog.Catalog
	state        *ClientState
	canvas       *draw.Canvas
	frame        *draw.Frame // canvas and text of the frame being drawn
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	shutdown     <-chan struct{}
	logger       *log.Logger
	rnd          *rand.Rand
	colors       map[string]draw.Color

	targetX  float64 // where the ship is being steered
	epoch    uint64  // session epoch targetX belongs to
	minEpoch uint64  // paused or finished snapshots older than this are stale
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	Shutdown     <-chan struct{} // closed when the host is going away
}

// NewClient creates a client for d. events must be the channel of the sink
// the session emits to.
func NewClient(d *session.Driver, events <-chan session.Event, cat *catalog.Catalog, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cat == nil {
		cat = catalog.Default()
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.AreaWidth, config.AreaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	// The world waits on the title screen.
	d.Pause()

	return &Client{
		driver:       d,
		events:       events,
		cat:          cat,
		state:        NewClientState(),
		canvas:       canvas,
		frame:        draw.NewFrame(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		shutdown:     opts.Shutdown,
		logger:       logger,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
		colors:       make(map[string]draw.Color),
	}
}

// Run plays until the user quits, the connection closes or ctx is done.
// The driver runs alongside and stops with the client.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.driver.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return c.loop(ctx)
	})
	return g.Wait()
}

func (c *Client) loop(ctx context.Context) error {
	draw.SetCursorVisible(c.writer, false)
	defer draw.SetCursorVisible(c.writer, true)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		snap := c.driver.Snapshot()

		c.processInput()
		c.processShutdown()
		c.processEvents(frameStart)
		c.reconcileEffects(snap, frameStart)
		c.updateEffects(frameStart)
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState(snap)
		case GameStatePlaying:
			c.updatePlayingState(snap)
		case GameStatePaused:
			c.updatePausedState(snap)
		case GameStateGameOver:
			c.updateGameOverState(snap)
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(snap); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.releaseParticles()
	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player", "user", c.username)
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processShutdown switches to the shutdown screen once the host announces it.
func (c *Client) processShutdown() {
	if c.shutdown == nil || c.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.driver.Pause()
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// processEvents turns session events into effects, sounds and HUD messages.
func (c *Client) processEvents(now time.Time) {
	for {
		select {
		case ev := <-c.events:
			c.handleEvent(ev, now)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(ev session.Event, now time.Time) {
	switch ev.Type {
	case session.EventExplosion:
		c.addEffect(ev.EffectID, ev.X, ev.Y, config.ExplosionSpeed, c.cat.Explosion(ev.Bullet), now)
	case session.EventSpark:
		c.addEffect(ev.EffectID, ev.X, ev.Y, config.SparkSpeed, c.cat.Spark(ev.Spark), now)
	case session.EventCollision:
		c.state.bell = true
	case session.EventWeaponChanged:
		c.state.flash("weapon: " + string(ev.Weapon))
	case session.EventCollectiblePicked:
		if _, weapon := ev.Collectible.Weapon(); !weapon {
			c.state.flash("picked up " + string(ev.Collectible))
		}
	}
}

// addEffect starts the particles of an effect and remembers to acknowledge
// it once its lifetime is over.
func (c *Client) addEffect(id string, x, y, speed float64, cfg catalog.EffectConfig, now time.Time) {
	if id != "" {
		if _, ok := c.state.seen[id]; ok {
			return
		}
		c.state.seen[id] = now
	}
	c.state.particles = append(c.state.particles, object.Burst(x, y, speed, cfg, c.rnd)...)
	if id != "" {
		c.state.effects = append(c.state.effects, pendingEffect{id: id, until: now.Add(cfg.Lifetime())})
	}
}

// reconcileEffects plays pending effects of snap the event stream never
// delivered. The event channel drops when full, and an effect nobody
// acknowledges would stay pending for the rest of the game.
func (c *Client) reconcileEffects(snap *session.Snapshot, now time.Time) {
	if snap == nil {
		return
	}
	for _, e := range snap.Explosions {
		c.addEffect(e.ID, e.X, e.Y, config.ExplosionSpeed, c.cat.Explosion(e.BulletType), now)
	}
	for _, sp := range snap.Sparks {
		c.addEffect(sp.ID, sp.X, sp.Y, config.SparkSpeed, c.cat.Spark(sp.Type), now)
	}
	for id, at := range c.state.seen {
		if now.Sub(at) > config.EffectMemory {
			delete(c.state.seen, id)
		}
	}
}

// updateEffects advances particles and acknowledges finished effects.
func (c *Client) updateEffects(now time.Time) {
	kept := c.state.particles[:0]
	for _, p := range c.state.particles {
		if p.Update(c.state.delta) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(c.state.particles[len(kept):])
	c.state.particles = kept

	c.state.effects = slices.DeleteFunc(c.state.effects, func(e pendingEffect) bool {
		if now.Before(e.until) {
			return false
		}
		c.driver.AckEffect(e.id)
		return true
	})

	if c.state.messageTimer > 0 {
		c.state.messageTimer -= c.state.delta.Seconds()
		if c.state.messageTimer <= 0 {
			c.state.message = ""
		}
	}
}

func (c *Client) releaseParticles() {
	for _, p := range c.state.particles {
		p.Release()
	}
	c.state.particles = nil
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.frame.SetOffset(offsetCol, offsetRow)
}

// clampTermSize fits the portrait play area into the terminal. A cell is
// about twice as tall as it is wide, so the column count follows the row
// count scaled by the area's aspect ratio. The result is centered.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderHeight = min(termHeight, config.MaxTermHeight)
	renderWidth = int(float64(renderHeight*2) * config.AreaWidth / config.AreaHeight)
	renderWidth = max(renderWidth, config.MinTermWidth)
	renderWidth = min(renderWidth, termWidth, config.MaxTermWidth)
	renderHeight = max(renderHeight, 0)
	renderWidth = max(renderWidth, 0)

	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState(snap *session.Snapshot) {
	if c.state.Input.Restart || c.state.Input.Charge {
		c.startGame(snap)
	}
}

// startGame leaves the title screen. A finished saved game starts over; an
// unfinished one continues.
func (c *Client) startGame(snap *session.Snapshot) {
	input.ResetKeyInput(c.inputStream)
	if snap.GameOver {
		c.driver.Reset()
	} else {
		c.driver.Resume()
	}
	c.play(snap)
}

// play switches to the playing screen after a resume or reset was queued.
func (c *Client) play(snap *session.Snapshot) {
	c.targetX = snap.Player.X
	c.epoch = 0
	c.minEpoch = snap.Epoch + 1
	c.state.GameState = GameStatePlaying
}

// updatePlayingState steers the ship and forwards fire commands.
func (c *Client) updatePlayingState(snap *session.Snapshot) {
	if snap.Epoch < c.minEpoch && (snap.Paused || snap.GameOver) {
		return
	}
	if snap.GameOver {
		c.enterGameOver(snap)
		return
	}
	if snap.Epoch != c.epoch {
		c.epoch = snap.Epoch
		c.targetX = snap.Player.X
	}

	in := c.state.Input
	if in.Pause {
		c.driver.Pause()
		c.state.GameState = GameStatePaused
		return
	}

	dir := 0.0
	if in.Left {
		dir--
	}
	if in.Right {
		dir++
	}
	if dir != 0 {
		c.targetX = physics.Clamp(
			c.targetX+dir*config.SteerSpeed*c.state.delta.Seconds(),
			object.PlayerEdgeMargin, snap.Screen.Width-object.PlayerEdgeMargin,
		)
		c.driver.SetPlayerX(c.targetX)
	}

	if in.Charge {
		c.driver.BeginCharge()
	}
	if in.Cancel {
		c.driver.CancelCharge()
	}
	if in.Special {
		c.driver.FireSpecial()
	}
	if in.Number > 0 {
		c.selectMissile(in.Number)
	}
}

// selectMissile picks the n-th automatic missile of the catalog.
func (c *Client) selectMissile(n int) {
	missiles := c.cat.AutomaticMissiles()
	if n > len(missiles) {
		return
	}
	id := missiles[n-1]
	if err := c.driver.SetActiveMissile(id); err != nil {
		c.logger.Warn("missile selection rejected", "missile", id, "err", err)
		return
	}
	c.state.flash("selected " + string(id))
}

func (c *Client) updatePausedState(snap *session.Snapshot) {
	if c.state.Input.Pause || c.state.Input.Restart {
		input.ResetKeyInput(c.inputStream)
		c.driver.Resume()
		c.play(snap)
	}
}

// enterGameOver starts the death animation. The overlay is shown once it
// has played.
func (c *Client) enterGameOver(snap *session.Snapshot) {
	c.state.GameState = GameStateGameOver
	c.state.deathTimer = 0
	c.state.showGameOverOverlay = false
	c.state.bell = true
	c.addEffect("", snap.Player.X, snap.Player.Y, config.ExplosionSpeed, c.cat.Explosion(catalog.MissileSpecial), time.Now())
	c.logger.Info("game over", "user", c.username, "score", snap.Score)
}

func (c *Client) updateGameOverState(snap *session.Snapshot) {
	if !snap.GameOver {
		// Reset from elsewhere.
		c.play(snap)
		return
	}
	if !c.state.showGameOverOverlay {
		c.state.deathTimer += c.state.delta.Seconds()
		if c.state.deathTimer >= config.DeathAnimationSeconds {
			c.state.showGameOverOverlay = true
		}
		return
	}
	if c.state.Input.Restart {
		input.ResetKeyInput(c.inputStream)
		c.driver.Reset()
		c.play(snap)
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
