// Package object defines the entities of the play field, the factories that
// build them from catalog entries and their per-frame movement.
package object

import (
	"time"

	"github.com/google/uuid"
)

// Entity dimensions in pixels.
const (
	PlayerWidth      = 60.0
	PlayerHeight     = 60.0
	PlayerEdgeMargin = 30.0  // player X is kept this far from either side
	PlayerBottomGap  = 180.0 // player Y is this far above the bottom edge
	EnemyWidth       = 40.0
	EnemyHeight      = 40.0
	CollectibleSize  = 30.0
	MuzzleOffset     = 30.0 // bullets spawn this far above the player
	BulletMargin     = 50.0 // bullets are culled this far outside the area
	BarrierMargin    = 50.0 // barriers are culled this far below the area
)

// Screen is the logical play area in pixels.
type Screen struct {
	Width  float64
	Height float64
}

// Rand is the source of uniform draws in [0,1) used by factories and spawners.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// UpdateContext carries what an entity needs to advance one frame.
type UpdateContext struct {
	Delta  time.Duration
	Screen Screen
}

// dt returns the frame delta in seconds.
func (ctx UpdateContext) dt() float64 {
	return ctx.Delta.Seconds()
}

// descend moves a normalized y coordinate down at speed pixels per second.
func (ctx UpdateContext) descend(y, speed float64) float64 {
	if ctx.Screen.Height <= 0 {
		return y
	}
	return y + speed*ctx.dt()/ctx.Screen.Height
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}
