package object

import "github.com/tomz197/skyraid/internal/physics"

// Player is the ship. X and Y are the pixel center; only X is steerable.
type Player struct {
	X, Y float64
}

// NewPlayer places the player at the horizontal center of s.
func NewPlayer(s Screen) Player {
	p := Player{X: s.Width / 2}
	p.Fit(s)
	return p
}

// Fit recomputes the fixed height and clamps X after the area changes.
func (p *Player) Fit(s Screen) {
	p.Y = s.Height - PlayerBottomGap
	p.SetX(p.X, s)
}

// SetX moves the player horizontally, clamped to the edge margins.
func (p *Player) SetX(x float64, s Screen) {
	p.X = physics.Clamp(x, PlayerEdgeMargin, s.Width-PlayerEdgeMargin)
}

// Bounds returns the pixel collision box.
func (p Player) Bounds() physics.Rect {
	return physics.Centered(p.X, p.Y, PlayerWidth, PlayerHeight)
}

// Muzzle returns where new bullets appear.
func (p Player) Muzzle() (x, y float64) {
	return p.X, p.Y - MuzzleOffset
}
