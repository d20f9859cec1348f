package object

import (
	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/physics"
)

// Bullet is a missile fired by the player. Position and velocity are in pixels.
type Bullet struct {
	ID                        string
	X, Y                      float64
	VelocityX, VelocityY      float64
	IsPlayer                  bool
	Damage                    int
	Radius                    float64
	Type                      catalog.MissileType
	CollisionRadiusMultiplier float64
	Area                      bool // pierces enemies and breaks barriers
	ScoreMultiplier           int
	Haptic                    catalog.Haptic
}

// NewBullet creates a player bullet at (x, y) from a missile config.
func NewBullet(cfg catalog.MissileConfig, x, y float64) Bullet {
	return Bullet{
		ID:                        NewID(),
		X:                         x,
		Y:                         y,
		VelocityY:                 cfg.VelocityY,
		IsPlayer:                  true,
		Damage:                    cfg.Damage,
		Radius:                    cfg.Radius,
		Type:                      cfg.ID,
		CollisionRadiusMultiplier: cfg.CollisionRadiusMultiplier,
		Area:                      cfg.Area,
		ScoreMultiplier:           cfg.ScoreMultiplier,
		Haptic:                    cfg.Haptic,
	}
}

// Update moves the bullet and reports whether it left the play area.
func (b *Bullet) Update(ctx UpdateContext) (remove bool) {
	dt := ctx.dt()
	b.X += b.VelocityX * dt
	b.Y += b.VelocityY * dt

	return b.X < -BulletMargin || b.X > ctx.Screen.Width+BulletMargin ||
		b.Y < -BulletMargin || b.Y > ctx.Screen.Height+BulletMargin
}

// Bounds returns the collision box, scaled by the collision multiplier.
func (b Bullet) Bounds() physics.Rect {
	return physics.Square(b.X, b.Y, b.Radius*b.CollisionRadiusMultiplier)
}

// Points returns the score for killing an enemy worth base points.
func (b Bullet) Points(base int) int {
	m := b.ScoreMultiplier
	if m < 1 {
		m = 1
	}
	return base * m
}
