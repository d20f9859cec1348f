package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/physics"
)

// Collectible is a power-up falling from the top edge. X is the normalized
// center and Y the normalized center line.
type Collectible struct {
	ID          string
	X, Y        float64
	Speed       float64
	Type        catalog.CollectibleType
	Color       string
	BonusValue  int
	Duration    int // milliseconds, zero for instant effects
	SpawnChance float64
}

// NewCollectible creates a collectible at normalized x on the top edge.
func NewCollectible(cfg catalog.CollectibleConfig, x float64) Collectible {
	return Collectible{
		ID:          NewID(),
		X:           x,
		Speed:       cfg.Speed,
		Type:        cfg.ID,
		Color:       cfg.Color,
		BonusValue:  cfg.BonusValue,
		Duration:    cfg.Duration,
		SpawnChance: cfg.SpawnChance,
	}
}

// Update moves the collectible down and reports whether it passed the bottom.
func (c *Collectible) Update(ctx UpdateContext) (remove bool) {
	c.Y = ctx.descend(c.Y, c.Speed)
	return c.Y*ctx.Screen.Height > ctx.Screen.Height+CollectibleSize
}

// Bounds returns the pixel pickup box.
func (c Collectible) Bounds(s Screen) physics.Rect {
	return physics.Centered(c.X*s.Width, c.Y*s.Height, CollectibleSize, CollectibleSize)
}

// EffectDuration returns Duration as a time.Duration.
func (c Collectible) EffectDuration() time.Duration {
	return time.Duration(c.Duration) * time.Millisecond
}
