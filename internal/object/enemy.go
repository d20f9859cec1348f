package object

import (
	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/physics"
)

// Enemy descends from the top edge. X and Y are normalized; X is the
// horizontal center and Y the top edge.
type Enemy struct {
	ID            string
	X, Y          float64
	Speed         float64
	Type          catalog.EnemyType
	Color         string
	Health        int
	MaxHealth     int
	Points        int
	EscapePenalty int
}

// NewEnemy creates an enemy at normalized x on the top edge.
func NewEnemy(cfg catalog.EnemyConfig, x float64) Enemy {
	return Enemy{
		ID:            NewID(),
		X:             x,
		Speed:         cfg.Speed,
		Type:          cfg.ID,
		Color:         cfg.Color,
		Health:        cfg.Health,
		MaxHealth:     cfg.Health,
		Points:        cfg.Points,
		EscapePenalty: cfg.EscapePenalty,
	}
}

// Update moves the enemy down and reports whether it passed the bottom edge.
func (e *Enemy) Update(ctx UpdateContext) (escaped bool) {
	e.Y = ctx.descend(e.Y, e.Speed)
	return e.Y*ctx.Screen.Height > ctx.Screen.Height+EnemyHeight
}

// Bounds returns the pixel collision box.
func (e Enemy) Bounds(s Screen) physics.Rect {
	return physics.Rect{
		X:      e.X*s.Width - EnemyWidth/2,
		Y:      e.Y * s.Height,
		Width:  EnemyWidth,
		Height: EnemyHeight,
	}
}

// Center returns the pixel center of the enemy.
func (e Enemy) Center(s Screen) (x, y float64) {
	return e.X * s.Width, e.Y*s.Height + EnemyHeight/2
}
