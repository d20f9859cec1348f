package session

import (
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/object"
)

// GameState is the authoritative scalar state. GameOver holds exactly when
// Health <= 0.
type GameState struct {
	Score         int
	Health        int
	GameOver      bool
	ActiveWeapon  catalog.MissileType // pickup override, empty when none
	WeaponEndTime time.Time           // zero when no override is active
}

// Snapshot is an immutable copy of a session for rendering. Slices are
// owned by the snapshot.
type Snapshot struct {
	Screen       object.Screen
	Player       object.Player
	Bullets      []object.Bullet
	Enemies      []object.Enemy
	Barriers     []object.Barrier
	Collectibles []object.Collectible
	Explosions   []object.Explosion
	Sparks       []object.Spark

	GameState
	Paused         bool
	SelectedWeapon catalog.MissileType
	Weapon         catalog.MissileType // what the fire timer shoots right now
	FireInterval   time.Duration
	Charging       bool
	ChargeProgress float64 // 0..1
	Epoch          uint64  // increments whenever play (re)starts
}

// Playing reports whether the world is advancing.
func (s *Snapshot) Playing() bool {
	return !s.GameOver && !s.Paused
}
