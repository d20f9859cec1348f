package object

import (
	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/physics"
)

// Barrier is a full-width band of segments with one opening. Y is the
// normalized top edge; widths are fractions of the area width.
type Barrier struct {
	ID              string
	Y               float64
	Speed           float64
	Type            catalog.BarrierType
	Color           string
	Damage          int
	OpeningPosition float64
	OpeningWidth    float64
	SegmentCount    int
	SegmentWidth    float64
	SegmentGap      float64
	SegmentHeight   float64
}

// NewBarrier creates a barrier on the top edge with its opening starting
// at openingPosition.
func NewBarrier(cfg catalog.BarrierConfig, openingPosition float64) Barrier {
	return Barrier{
		ID:              NewID(),
		Speed:           cfg.Speed,
		Type:            cfg.ID,
		Color:           cfg.Color,
		Damage:          cfg.Damage,
		OpeningPosition: physics.Clamp(openingPosition, 0, 1-cfg.OpeningWidth),
		OpeningWidth:    cfg.OpeningWidth,
		SegmentCount:    cfg.SegmentCount,
		SegmentWidth:    cfg.SegmentWidth,
		SegmentGap:      cfg.SegmentGap,
		SegmentHeight:   cfg.SegmentHeight,
	}
}

// Update moves the barrier down and reports whether it can be culled.
func (b *Barrier) Update(ctx UpdateContext) (remove bool) {
	b.Y = ctx.descend(b.Y, b.Speed)
	return b.Y*ctx.Screen.Height > ctx.Screen.Height+BarrierMargin
}

// Band returns the full-width pixel box the barrier occupies.
func (b Barrier) Band(s Screen) physics.Rect {
	return physics.Rect{
		X:      0,
		Y:      b.Y * s.Height,
		Width:  s.Width,
		Height: b.SegmentHeight * s.Height,
	}
}

// InOpening reports whether normalized x lies within the opening.
func (b Barrier) InOpening(x float64) bool {
	return x >= b.OpeningPosition && x <= b.OpeningPosition+b.OpeningWidth
}

// Segments lays out the visible segments in pixels. The segments share the
// width left over by the opening and keep SegmentGap between each other.
func (b Barrier) Segments(s Screen) []physics.Rect {
	if b.SegmentCount < 1 {
		return nil
	}
	gap := b.SegmentGap * s.Width
	available := s.Width - b.OpeningWidth*s.Width
	segW := (available - float64(b.SegmentCount-1)*gap) / float64(b.SegmentCount)
	if segW <= 0 {
		return nil
	}

	y := b.Y * s.Height
	h := b.SegmentHeight * s.Height
	before := int(float64(b.SegmentCount) * b.OpeningPosition)

	out := make([]physics.Rect, 0, b.SegmentCount)
	x := 0.0
	for range before {
		out = append(out, physics.Rect{X: x, Y: y, Width: segW, Height: h})
		x += segW + gap
	}
	x = (b.OpeningPosition + b.OpeningWidth) * s.Width
	for range b.SegmentCount - before {
		out = append(out, physics.Rect{X: x, Y: y, Width: segW, Height: h})
		x += segW + gap
	}
	return out
}
