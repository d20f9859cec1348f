package session

import (
	"slices"

	"github.com/tomz197/skyraid/internal/catalog"
)

// resolveCollisions runs the collision passes in a fixed order. Each pass
// sees the removals of the previous ones. Once the game is over the
// remaining passes are skipped.
func (s *Session) resolveCollisions() error {
	s.checkBulletEnemy()
	passes := []func() error{
		s.checkPlayerEnemy,
		s.checkPlayerBarrier,
		s.checkBulletBarrier,
		s.checkPlayerCollectible,
	}
	for _, pass := range passes {
		if s.state.GameOver {
			return nil
		}
		if err := pass(); err != nil {
			return err
		}
	}
	return nil
}

// checkBulletEnemy lets bullets destroy enemies. A regular bullet is spent
// on its first kill; an area bullet destroys everything it overlaps and
// keeps flying.
func (s *Session) checkBulletEnemy() {
	for bi := len(s.bullets) - 1; bi >= 0; bi-- {
		b := s.bullets[bi]
		box := b.Bounds()
		spent := false
		for ei := len(s.enemies) - 1; ei >= 0; ei-- {
			e := s.enemies[ei]
			if !box.Intersects(e.Bounds(s.screen)) {
				continue
			}
			s.enemies = slices.Delete(s.enemies, ei, ei+1)

			x, y := e.Center(s.screen)
			s.addScore(b.Points(e.Points))
			s.addExplosion(x, y, e.Type, b.Type)
			haptic := catalog.HapticMedium
			if b.Area {
				haptic = catalog.HapticHeavy
			}
			s.sink.Emit(Event{Type: EventEnemyKilled, X: x, Y: y, Enemy: e.Type, Bullet: b.Type, Haptic: haptic})

			if !b.Area {
				spent = true
				break
			}
		}
		if spent {
			s.bullets = slices.Delete(s.bullets, bi, bi+1)
		}
	}
}

// checkPlayerEnemy removes every enemy touching the ship, one health each,
// until the ship is destroyed.
func (s *Session) checkPlayerEnemy() error {
	box := s.player.Bounds()
	for i := len(s.enemies) - 1; i >= 0 && !s.state.GameOver; i-- {
		e := s.enemies[i]
		if !box.Intersects(e.Bounds(s.screen)) {
			continue
		}
		s.enemies = slices.Delete(s.enemies, i, i+1)
		s.addSpark(s.player.X, s.player.Y, catalog.SparkDefault)
		s.sink.Emit(Event{Type: EventCollision, X: s.player.X, Y: s.player.Y, Enemy: e.Type})
		s.damage(1)
	}
	return nil
}

// checkPlayerBarrier applies barrier damage when the ship crosses a barrier
// band outside its opening. The barrier is consumed.
func (s *Session) checkPlayerBarrier() error {
	box := s.player.Bounds()
	px := s.player.X / s.screen.Width
	for i := len(s.barriers) - 1; i >= 0 && !s.state.GameOver; i-- {
		b := s.barriers[i]
		band := b.Band(s.screen)
		if box.Y >= band.Bottom() || box.Bottom() <= band.Y {
			continue
		}
		if b.InOpening(px) {
			continue
		}
		s.barriers = slices.Delete(s.barriers, i, i+1)
		s.addSpark(s.player.X, s.player.Y, catalog.SparkIntense)
		s.sink.Emit(Event{Type: EventCollision, X: s.player.X, Y: s.player.Y})
		s.damage(b.Damage)
	}
	return nil
}

// checkBulletBarrier lets area bullets break barriers for score. The
// bullet survives.
func (s *Session) checkBulletBarrier() error {
	for _, b := range s.bullets {
		if !b.Area {
			continue
		}
		box := b.Bounds()
		for i := len(s.barriers) - 1; i >= 0; i-- {
			bar := s.barriers[i]
			if !box.Intersects(bar.Band(s.screen)) {
				continue
			}
			s.barriers = slices.Delete(s.barriers, i, i+1)
			s.addScore(bar.Damage)
			s.addExplosion(b.X, b.Y, "", b.Type)
			s.addSpark(b.X, b.Y, catalog.SparkSubtle)
		}
	}
	return nil
}

// checkPlayerCollectible picks up every collectible touching the ship.
func (s *Session) checkPlayerCollectible() error {
	box := s.player.Bounds()
	for i := len(s.collectibles) - 1; i >= 0; i-- {
		c := s.collectibles[i]
		if !box.Intersects(c.Bounds(s.screen)) {
			continue
		}
		s.collectibles = slices.Delete(s.collectibles, i, i+1)
		if err := s.applyCollectible(c); err != nil {
			return err
		}
	}
	return nil
}
