package session

import (
	"fmt"
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/object"
)

// Step advances the world to now. The first step after a start, reset or
// resume only records the time. Nothing moves while paused or after game over.
func (s *Session) Step(now time.Time) error {
	if !s.playing() {
		return nil
	}
	if s.lastFrame.IsZero() {
		s.lastFrame = now
		s.now = now
		return nil
	}
	delta := max(now.Sub(s.lastFrame), 0)
	s.lastFrame = now
	s.now = now

	s.expireWeapon()
	if err := s.advanceCharge(delta); err != nil {
		return err
	}

	ctx := object.UpdateContext{Delta: delta, Screen: s.screen}
	s.updateBullets(ctx)
	s.updateEnemies(ctx)
	s.updateBarriers(ctx)
	s.updateCollectibles(ctx)
	if s.state.GameOver {
		return nil
	}

	if err := s.spawn(delta); err != nil {
		return err
	}
	return s.resolveCollisions()
}

// expireWeapon drops a pickup override whose time is up.
func (s *Session) expireWeapon() {
	if s.state.ActiveWeapon == "" || s.now.Before(s.state.WeaponEndTime) {
		return
	}
	s.logger.Debug("weapon expired", "weapon", s.state.ActiveWeapon)
	s.state.ActiveWeapon = ""
	s.state.WeaponEndTime = time.Time{}
	s.sink.Emit(Event{Type: EventWeaponChanged, Weapon: s.selected})
}

func (s *Session) advanceCharge(delta time.Duration) error {
	if !s.charging {
		return nil
	}
	s.chargeElapsed += delta
	if s.chargeElapsed < config.ChargeTime {
		return nil
	}
	s.charging = false
	s.chargeElapsed = 0
	return s.FireSpecial()
}

func (s *Session) updateBullets(ctx object.UpdateContext) {
	kept := s.bullets[:0]
	for _, b := range s.bullets {
		if !b.Update(ctx) {
			kept = append(kept, b)
		}
	}
	clear(s.bullets[len(kept):])
	s.bullets = kept
}

func (s *Session) updateEnemies(ctx object.UpdateContext) {
	kept := s.enemies[:0]
	for _, e := range s.enemies {
		if !e.Update(ctx) {
			kept = append(kept, e)
			continue
		}
		if e.EscapePenalty > 0 && !s.state.GameOver {
			x := e.X * s.screen.Width
			s.addSpark(x, s.screen.Height, catalog.SparkSubtle)
			s.sink.Emit(Event{Type: EventCollision, X: x, Y: s.screen.Height, Enemy: e.Type})
			s.damage(e.EscapePenalty)
		}
	}
	clear(s.enemies[len(kept):])
	s.enemies = kept
}

func (s *Session) updateBarriers(ctx object.UpdateContext) {
	kept := s.barriers[:0]
	for _, b := range s.barriers {
		if !b.Update(ctx) {
			kept = append(kept, b)
		}
	}
	clear(s.barriers[len(kept):])
	s.barriers = kept
}

func (s *Session) updateCollectibles(ctx object.UpdateContext) {
	kept := s.collectibles[:0]
	for _, c := range s.collectibles {
		if !c.Update(ctx) {
			kept = append(kept, c)
		}
	}
	clear(s.collectibles[len(kept):])
	s.collectibles = kept
}

func (s *Session) spawn(delta time.Duration) error {
	if s.enemySpawner.Advance(delta) {
		enemies, err := object.SpawnEnemies(s.cat, s.rnd, s.enemiesMultiplier)
		if err != nil {
			return err
		}
		s.enemies = append(s.enemies, enemies...)
		s.logger.Debug("spawned enemies", "count", len(enemies), "total", len(s.enemies))
	}

	if s.barrierSpawner.Advance(delta) {
		if object.CanSpawnBarrier(s.barriers) {
			b, err := object.SpawnBarrier(s.cat, s.rnd)
			if err != nil {
				return err
			}
			s.barriers = append(s.barriers, b)
			s.logger.Debug("spawned barrier", "type", b.Type, "opening", b.OpeningPosition)
		} else {
			s.barrierSpawner.Hold()
		}
	}

	if s.collectibleSpawner.Advance(delta) {
		c, err := object.SpawnCollectible(s.cat, s.rnd)
		if err != nil {
			return err
		}
		s.collectibles = append(s.collectibles, c)
		s.logger.Debug("spawned collectible", "type", c.Type)
	}
	return nil
}

// damage lowers health, clamped at zero, and ends the game when it runs out.
func (s *Session) damage(n int) {
	if n <= 0 {
		return
	}
	s.state.Health = max(s.state.Health-n, 0)
	s.sink.Emit(Event{Type: EventHealthChanged, Health: s.state.Health})
	if s.state.Health > 0 || s.state.GameOver {
		return
	}
	s.state.GameOver = true
	s.charging = false
	s.chargeElapsed = 0
	s.logger.Info("game over", "score", s.state.Score)
	s.sink.Emit(Event{Type: EventGameOver, Score: s.state.Score})
}

// heal raises health up to the maximum.
func (s *Session) heal(n int) {
	if n <= 0 {
		return
	}
	s.state.Health = min(s.state.Health+n, config.MaxHealth)
	s.sink.Emit(Event{Type: EventHealthChanged, Health: s.state.Health})
}

func (s *Session) addScore(n int) {
	if n == 0 {
		return
	}
	s.state.Score += n
	s.sink.Emit(Event{Type: EventScoreChanged, Score: s.state.Score})
}

func (s *Session) addExplosion(x, y float64, enemy catalog.EnemyType, bullet catalog.MissileType) {
	e := object.NewExplosion(x, y, enemy, bullet)
	s.explosions = append(s.explosions, e)
	s.sink.Emit(Event{Type: EventExplosion, X: x, Y: y, EffectID: e.ID, Enemy: enemy, Bullet: bullet})
}

func (s *Session) addSpark(x, y float64, t catalog.SparkType) {
	sp := object.NewSpark(x, y, t)
	s.sparks = append(s.sparks, sp)
	s.sink.Emit(Event{Type: EventSpark, X: x, Y: y, EffectID: sp.ID, Spark: t})
}

// applyCollectible grants a pickup's effect.
func (s *Session) applyCollectible(c object.Collectible) error {
	switch c.Type {
	case catalog.CollectibleHealth:
		s.heal(c.BonusValue)
	case catalog.CollectibleShield:
		// Shields have no gameplay effect yet; renderers still get the pickup event.
	default:
		weapon, ok := c.Type.Weapon()
		if !ok {
			return fmt.Errorf("apply pickup: %w: %q", catalog.ErrUnknownCollectible, c.Type)
		}
		if _, err := s.cat.Missile(weapon); err != nil {
			return fmt.Errorf("apply pickup %s: %w", c.Type, err)
		}
		duration := c.EffectDuration()
		if duration <= 0 {
			duration = config.DefaultWeaponDuration
		}
		s.state.ActiveWeapon = weapon
		s.state.WeaponEndTime = s.now.Add(duration)
		s.sink.Emit(Event{Type: EventWeaponChanged, Weapon: weapon})
	}
	s.sink.Emit(Event{Type: EventCollectiblePicked, Collectible: c.Type})
	return nil
}
