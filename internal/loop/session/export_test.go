package session

import "github.com/tomz197/skyraid/internal/object"

// Quiet stops all spawners so tests control every entity.
func (s *Session) Quiet() {
	s.enemySpawner.Interval = 0
	s.barrierSpawner.Interval = 0
	s.collectibleSpawner.Interval = 0
}

func (s *Session) PlaceEnemy(e object.Enemy)   { s.enemies = append(s.enemies, e) }
func (s *Session) PlaceBullet(b object.Bullet) { s.bullets = append(s.bullets, b) }

func (s *Session) ResolveCollisions() error { return s.resolveCollisions() }
