package object

import (
	"fmt"
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
)

// Spawner is an accumulating interval timer. Overshoot carries over to the
// next period so spawn cadence does not drift with frame timing.
type Spawner struct {
	Interval time.Duration
	elapsed  time.Duration
}

// NewSpawner creates a spawner that fires every interval.
func NewSpawner(interval time.Duration) *Spawner {
	return &Spawner{Interval: interval}
}

// Advance adds delta and reports whether the interval elapsed.
func (s *Spawner) Advance(delta time.Duration) bool {
	if s.Interval <= 0 {
		return false
	}
	s.elapsed += max(delta, 0)
	if s.elapsed < s.Interval {
		return false
	}
	s.elapsed = (s.elapsed - s.Interval) % s.Interval
	return true
}

// Hold saturates the timer so the next Advance fires.
func (s *Spawner) Hold() {
	s.elapsed = s.Interval
}

// Reset clears accumulated time.
func (s *Spawner) Reset() {
	s.elapsed = 0
}

// Elapsed returns the time accumulated toward the next firing.
func (s *Spawner) Elapsed() time.Duration {
	return s.elapsed
}

// Barrier spawn constraints.
const (
	MaxBarriers       = 2
	BarrierClearanceY = 0.4 // every barrier must be this far down before another spawns
)

// SpawnEnemies picks count enemies from the table, each at a random x on
// the top edge.
func SpawnEnemies(c *catalog.Catalog, rnd Rand, count int) ([]Enemy, error) {
	out := make([]Enemy, 0, count)
	for range count {
		cfg, ok := catalog.PickWeighted(c.Enemies, rnd.Float64())
		if !ok {
			return out, fmt.Errorf("spawn enemy: %w: empty table", catalog.ErrUnknownEnemy)
		}
		out = append(out, NewEnemy(cfg, rnd.Float64()))
	}
	return out, nil
}

// CanSpawnBarrier reports whether another barrier may enter the area.
func CanSpawnBarrier(existing []Barrier) bool {
	if len(existing) >= MaxBarriers {
		return false
	}
	for _, b := range existing {
		if b.Y < BarrierClearanceY {
			return false
		}
	}
	return true
}

// SpawnBarrier picks a barrier type and a random opening position.
func SpawnBarrier(c *catalog.Catalog, rnd Rand) (Barrier, error) {
	cfg, ok := catalog.PickWeighted(c.Barriers, rnd.Float64())
	if !ok {
		return Barrier{}, fmt.Errorf("spawn barrier: %w: empty table", catalog.ErrUnknownBarrier)
	}
	return NewBarrier(cfg, rnd.Float64()*(1-cfg.OpeningWidth)), nil
}

// SpawnCollectible picks a collectible type at a random x on the top edge.
func SpawnCollectible(c *catalog.Catalog, rnd Rand) (Collectible, error) {
	cfg, ok := catalog.PickWeighted(c.Collectibles, rnd.Float64())
	if !ok {
		return Collectible{}, fmt.Errorf("spawn collectible: %w: empty table", catalog.ErrUnknownCollectible)
	}
	return NewCollectible(cfg, rnd.Float64()), nil
}
