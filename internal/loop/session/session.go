// Package session runs one player's game: the world, its rules and the
// driver that advances it in real time.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/persist"
)

// ErrNotAutomatic is returned when selecting a missile the fire timer cannot use.
var ErrNotAutomatic = errors.New("missile is not automatic")

// Options configures a Session. Zero values pick the defaults.
type Options struct {
	Catalog            *catalog.Catalog
	Screen             object.Screen
	Rand               object.Rand
	Sink               Sink
	Logger             *log.Logger
	EnemiesMultiplier  int     // enemies per spawn, clamped to 1..10
	SpawnIntervalScale float64 // scales the enemy spawn interval
}

// Session owns one game world. It is not safe for concurrent use; Driver
// serializes access to it.
type Session struct {
	cat    *catalog.Catalog
	screen object.Screen
	rnd    object.Rand
	sink   Sink
	logger *log.Logger

	player       object.Player
	bullets      []object.Bullet
	enemies      []object.Enemy
	barriers     []object.Barrier
	collectibles []object.Collectible
	explosions   []object.Explosion
	sparks       []object.Spark

	state    GameState
	paused   bool
	selected catalog.MissileType
	epoch    uint64

	charging      bool
	chargeElapsed time.Duration

	lastFrame time.Time // zero until the first step after (re)start
	now       time.Time

	enemySpawner       *object.Spawner
	barrierSpawner     *object.Spawner
	collectibleSpawner *object.Spawner
	enemiesMultiplier  int
}

// New creates a session ready to play.
func New(opts Options) *Session {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	screen := opts.Screen
	if screen.Width <= 0 || screen.Height <= 0 {
		screen = object.Screen{Width: config.AreaWidth, Height: config.AreaHeight}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sink := opts.Sink
	if sink == nil {
		sink = discardSink{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	scale := opts.SpawnIntervalScale
	if scale <= 0 {
		scale = 1
	}
	multiplier := min(max(opts.EnemiesMultiplier, 1), config.MaxEnemiesMultiplier)

	s := &Session{
		cat:                cat,
		screen:             screen,
		rnd:                rnd,
		sink:               sink,
		logger:             logger,
		selected:           catalog.MissileNormal,
		enemySpawner:       object.NewSpawner(time.Duration(float64(config.EnemySpawnInterval) * scale)),
		barrierSpawner:     object.NewSpawner(config.BarrierSpawnInterval),
		collectibleSpawner: object.NewSpawner(config.CollectibleSpawnInterval),
		enemiesMultiplier:  multiplier,
	}
	s.Reset()
	return s
}

// Reset starts a fresh game. The selected missile is kept.
func (s *Session) Reset() {
	s.player = object.NewPlayer(s.screen)
	s.bullets = nil
	s.enemies = nil
	s.barriers = nil
	s.collectibles = nil
	s.explosions = nil
	s.sparks = nil
	s.state = GameState{Health: config.InitialHealth}
	s.paused = false
	s.charging = false
	s.chargeElapsed = 0
	s.lastFrame = time.Time{}
	s.enemySpawner.Reset()
	s.barrierSpawner.Reset()
	s.collectibleSpawner.Reset()
	s.epoch++
	s.logger.Info("game started", "epoch", s.epoch)
}

// Pause freezes the world. It has no effect after game over.
func (s *Session) Pause() {
	if s.state.GameOver || s.paused {
		return
	}
	s.paused = true
	s.logger.Info("game paused", "score", s.state.Score)
}

// Resume continues a paused game. The next step only records its time.
func (s *Session) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.lastFrame = time.Time{}
	s.epoch++
	s.logger.Info("game resumed", "epoch", s.epoch)
}

// Resize changes the play area and refits the player.
func (s *Session) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.screen = object.Screen{Width: width, Height: height}
	s.player.Fit(s.screen)
}

// SetPlayerX steers the ship, clamped to the area.
func (s *Session) SetPlayerX(x float64) {
	if s.state.GameOver {
		return
	}
	s.player.SetX(x, s.screen)
}

// ValidateMissile checks that id can be selected for automatic fire. It only
// reads the catalog and is safe to call from any goroutine.
func (s *Session) ValidateMissile(id catalog.MissileType) error {
	cfg, err := s.cat.Missile(id)
	if err != nil {
		return err
	}
	if !cfg.Automatic() {
		return fmt.Errorf("%w: %s", ErrNotAutomatic, id)
	}
	return nil
}

// SetActiveMissile selects the missile used for automatic fire once no
// pickup override is active.
func (s *Session) SetActiveMissile(id catalog.MissileType) error {
	if err := s.ValidateMissile(id); err != nil {
		return err
	}
	if s.selected == id {
		return nil
	}
	s.selected = id
	if s.state.ActiveWeapon == "" {
		s.sink.Emit(Event{Type: EventWeaponChanged, Weapon: id})
	}
	return nil
}

// weapon returns the missile the fire timer shoots at the latest step time.
func (s *Session) weapon() catalog.MissileType {
	if s.state.ActiveWeapon != "" && s.now.Before(s.state.WeaponEndTime) {
		return s.state.ActiveWeapon
	}
	return s.selected
}

// FireInterval returns the automatic fire period of the current weapon.
func (s *Session) FireInterval() time.Duration {
	cfg, err := s.cat.Missile(s.weapon())
	if err != nil || !cfg.Automatic() {
		return config.FallbackFireInterval
	}
	return cfg.FireInterval()
}

func (s *Session) playing() bool {
	return !s.state.GameOver && !s.paused
}

// FireAutomatic shoots the current weapon. It does nothing while charging,
// paused or after game over.
func (s *Session) FireAutomatic() error {
	if !s.playing() || s.charging {
		return nil
	}
	cfg, err := s.cat.Missile(s.weapon())
	if err != nil {
		return fmt.Errorf("fire: %w", err)
	}
	b := s.shoot(cfg)
	s.sink.Emit(Event{Type: EventShootFired, X: b.X, Y: b.Y, Bullet: b.Type, Haptic: b.Haptic})
	return nil
}

// FireSpecial shoots the special missile immediately.
func (s *Session) FireSpecial() error {
	if !s.playing() {
		return nil
	}
	cfg, err := s.cat.Missile(catalog.MissileSpecial)
	if err != nil {
		return fmt.Errorf("fire special: %w", err)
	}
	b := s.shoot(cfg)
	s.sink.Emit(Event{Type: EventSpecialFired, X: b.X, Y: b.Y, Bullet: b.Type, Haptic: b.Haptic})
	return nil
}

func (s *Session) shoot(cfg catalog.MissileConfig) object.Bullet {
	x, y := s.player.Muzzle()
	b := object.NewBullet(cfg, x, y)
	s.bullets = append(s.bullets, b)
	return b
}

// BeginCharge starts charging the special missile. Automatic fire pauses
// until the charge completes or is cancelled.
func (s *Session) BeginCharge() {
	if !s.playing() || s.charging {
		return
	}
	s.charging = true
	s.chargeElapsed = 0
}

// CancelCharge drops a charge in progress without firing.
func (s *Session) CancelCharge() {
	s.charging = false
	s.chargeElapsed = 0
}

// AckEffect removes a pending explosion or spark once it has been played.
// It reports whether id was pending.
func (s *Session) AckEffect(id string) bool {
	if i := slices.IndexFunc(s.explosions, func(e object.Explosion) bool { return e.ID == id }); i >= 0 {
		s.explosions = slices.Delete(s.explosions, i, i+1)
		return true
	}
	if i := slices.IndexFunc(s.sparks, func(sp object.Spark) bool { return sp.ID == id }); i >= 0 {
		s.sparks = slices.Delete(s.sparks, i, i+1)
		return true
	}
	return false
}

// State returns the scalar game state.
func (s *Session) State() GameState {
	return s.state
}

// Snapshot copies the session for rendering.
func (s *Session) Snapshot() *Snapshot {
	progress := 0.0
	if s.charging {
		progress = min(float64(s.chargeElapsed)/float64(config.ChargeTime), 1)
	}
	return &Snapshot{
		Screen:         s.screen,
		Player:         s.player,
		Bullets:        slices.Clone(s.bullets),
		Enemies:        slices.Clone(s.enemies),
		Barriers:       slices.Clone(s.barriers),
		Collectibles:   slices.Clone(s.collectibles),
		Explosions:     slices.Clone(s.explosions),
		Sparks:         slices.Clone(s.sparks),
		GameState:      s.state,
		Paused:         s.paused,
		SelectedWeapon: s.selected,
		Weapon:         s.weapon(),
		FireInterval:   s.FireInterval(),
		Charging:       s.charging,
		ChargeProgress: progress,
		Epoch:          s.epoch,
	}
}

// Record returns the persisted part of the state.
func (s *Session) Record() persist.Record {
	return persist.Record{Score: s.state.Score, Health: s.state.Health}
}

// Restore applies a persisted record. A record without health restores a
// finished game.
func (s *Session) Restore(rec persist.Record) {
	s.state.Score = max(rec.Score, 0)
	s.state.Health = min(max(rec.Health, 0), config.MaxHealth)
	s.state.GameOver = s.state.Health <= 0
	if s.state.GameOver {
		s.charging = false
	}
}
