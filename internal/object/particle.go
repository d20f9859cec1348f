package object

import (
	"math"
	"sync"
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
)

// particlePool reuses Particle values between bursts.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual fragment of an explosion or spark.
// Particles never affect the simulation.
type Particle struct {
	X, Y        float64 // pixels
	VX, VY      float64 // pixels per second
	Lifetime    float64 // seconds remaining
	MaxLifetime float64
	Drag        float64 // velocity kept per 1/60s
	Color       string
}

// NewParticle takes a particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, color string) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Color:       color,
	}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Burst creates cfg.ParticleCount particles flying out of (x, y) at around
// speed pixels per second, living up to the effect's lifetime.
func Burst(x, y, speed float64, cfg catalog.EffectConfig, rnd Rand) []*Particle {
	lifetime := cfg.Lifetime().Seconds()
	out := make([]*Particle, 0, cfg.ParticleCount)
	for range cfg.ParticleCount {
		angle := rnd.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rnd.Float64())
		life := lifetime * (0.5 + rnd.Float64()*0.5)

		color := "#ffffff"
		if len(cfg.Colors) > 0 {
			color = cfg.Colors[int(rnd.Float64()*float64(len(cfg.Colors)))%len(cfg.Colors)]
		}
		out = append(out, NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, color))
	}
	return out
}

// Update moves the particle and reports whether it expired.
func (p *Particle) Update(delta time.Duration) (remove bool) {
	dt := delta.Seconds()
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Visible reports whether the particle is bright enough to draw.
func (p *Particle) Visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}
