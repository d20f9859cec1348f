// Package catalog holds the static gameplay tables: enemies, barriers,
// collectibles, missiles and the visual effect variants the renderer plays.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownEnemy       = errors.New("unknown enemy type")
	ErrUnknownBarrier     = errors.New("unknown barrier type")
	ErrUnknownCollectible = errors.New("unknown collectible type")
	ErrUnknownMissile     = errors.New("unknown missile type")
)

// EnemyType identifies an enemy table entry.
type EnemyType string

const (
	EnemyRed    EnemyType = "red"
	EnemyPurple EnemyType = "purple"
	EnemyBlue   EnemyType = "blue"
	EnemyGreen  EnemyType = "green"
	EnemyOrange EnemyType = "orange"
)

// Valid reports whether t is one of the known enemy types.
func (t EnemyType) Valid() bool {
	switch t {
	case EnemyRed, EnemyPurple, EnemyBlue, EnemyGreen, EnemyOrange:
		return true
	}
	return false
}

// BarrierType identifies a barrier table entry.
type BarrierType string

const (
	BarrierClassic  BarrierType = "classic"
	BarrierFire     BarrierType = "fire"
	BarrierLaser    BarrierType = "laser"
	BarrierElectric BarrierType = "electric"
	BarrierPlasma   BarrierType = "plasma"
)

func (t BarrierType) Valid() bool {
	switch t {
	case BarrierClassic, BarrierFire, BarrierLaser, BarrierElectric, BarrierPlasma:
		return true
	}
	return false
}

// CollectibleType identifies a collectible table entry.
type CollectibleType string

const (
	CollectibleHealth  CollectibleType = "health"
	CollectibleShield  CollectibleType = "shield"
	CollectibleSniper  CollectibleType = "sniper"
	CollectibleShotgun CollectibleType = "shotgun"
	CollectibleLaser   CollectibleType = "laser"
)

func (t CollectibleType) Valid() bool {
	switch t {
	case CollectibleHealth, CollectibleShield, CollectibleSniper, CollectibleShotgun, CollectibleLaser:
		return true
	}
	return false
}

// Weapon returns the missile a weapon pickup grants, or false for
// pickups that do not change the weapon.
func (t CollectibleType) Weapon() (MissileType, bool) {
	switch t {
	case CollectibleSniper:
		return MissileSniper, true
	case CollectibleShotgun:
		return MissileShotgun, true
	case CollectibleLaser:
		return MissileLaser, true
	}
	return "", false
}

// MissileType identifies a missile table entry.
type MissileType string

const (
	MissileNormal  MissileType = "normal"
	MissileSpecial MissileType = "special"
	MissileSniper  MissileType = "sniper"
	MissileShotgun MissileType = "shotgun"
	MissileLaser   MissileType = "laser"
)

func (t MissileType) Valid() bool {
	switch t {
	case MissileNormal, MissileSpecial, MissileSniper, MissileShotgun, MissileLaser:
		return true
	}
	return false
}

// SparkType selects a collision spark variant.
type SparkType string

const (
	SparkDefault SparkType = "default"
	SparkIntense SparkType = "intense"
	SparkSubtle  SparkType = "subtle"
)

func (t SparkType) Valid() bool {
	switch t {
	case SparkDefault, SparkIntense, SparkSubtle:
		return true
	}
	return false
}

// Haptic is the feedback tier a renderer should play for a missile.
type Haptic string

const (
	HapticLight  Haptic = "light"
	HapticMedium Haptic = "medium"
	HapticHeavy  Haptic = "heavy"
	HapticRigid  Haptic = "rigid"
)

func (h Haptic) Valid() bool {
	switch h {
	case HapticLight, HapticMedium, HapticHeavy, HapticRigid:
		return true
	}
	return false
}

// EnemyConfig describes one enemy type. Speed is in pixels per second.
type EnemyConfig struct {
	ID            EnemyType `yaml:"id"`
	Color         string    `yaml:"color"`
	Speed         float64   `yaml:"speed"`
	Health        int       `yaml:"health"`
	Points        int       `yaml:"points"`
	SpawnChance   float64   `yaml:"spawnChance"`
	EscapePenalty int       `yaml:"escapePenalty"` // health lost when the enemy leaves the bottom edge
}

func (c EnemyConfig) SpawnWeight() float64 { return c.SpawnChance }

// BarrierConfig describes one barrier type. Widths and heights are
// fractions of the play area.
type BarrierConfig struct {
	ID            BarrierType `yaml:"id"`
	Color         string      `yaml:"color"`
	Speed         float64     `yaml:"speed"`
	Damage        int         `yaml:"damage"`
	SpawnChance   float64     `yaml:"spawnChance"`
	SegmentCount  int         `yaml:"segmentCount"`
	SegmentWidth  float64     `yaml:"segmentWidth"`
	SegmentGap    float64     `yaml:"segmentGap"`
	OpeningWidth  float64     `yaml:"openingWidth"`
	SegmentHeight float64     `yaml:"segmentHeight"`
}

func (c BarrierConfig) SpawnWeight() float64 { return c.SpawnChance }

// CollectibleConfig describes one pickup type. Duration is in milliseconds;
// zero means the effect is instant.
type CollectibleConfig struct {
	ID          CollectibleType `yaml:"id"`
	Color       string          `yaml:"color"`
	Speed       float64         `yaml:"speed"`
	BonusValue  int             `yaml:"bonusValue"`
	Duration    int             `yaml:"duration"`
	SpawnChance float64         `yaml:"spawnChance"`
}

func (c CollectibleConfig) SpawnWeight() float64 { return c.SpawnChance }

// EffectDuration returns Duration as a time.Duration.
func (c CollectibleConfig) EffectDuration() time.Duration {
	return time.Duration(c.Duration) * time.Millisecond
}

// MissileConfig describes one bullet type. FireRate is the automatic fire
// interval in milliseconds; zero marks a manually fired missile.
type MissileConfig struct {
	ID                        MissileType `yaml:"id"`
	Color                     string      `yaml:"color"`
	Radius                    float64     `yaml:"radius"`
	VelocityY                 float64     `yaml:"velocityY"`
	Damage                    int         `yaml:"damage"`
	CollisionRadiusMultiplier float64     `yaml:"collisionRadiusMultiplier"`
	FireRate                  int         `yaml:"fireRate"`
	Area                      bool        `yaml:"area"` // pierces enemies and breaks barriers
	ScoreMultiplier           int         `yaml:"scoreMultiplier"`
	Haptic                    Haptic      `yaml:"haptic"`
}

// Automatic reports whether the missile is fired by the fire timer.
func (c MissileConfig) Automatic() bool { return c.FireRate > 0 }

// FireInterval returns FireRate as a time.Duration.
func (c MissileConfig) FireInterval() time.Duration {
	return time.Duration(c.FireRate) * time.Millisecond
}

// EffectConfig describes a visual effect variant. Only the renderer reads it.
type EffectConfig struct {
	ID            string   `yaml:"id"`
	ParticleCount int      `yaml:"particleCount"`
	Duration      int      `yaml:"duration"`
	Colors        []string `yaml:"colors"`
}

// Lifetime returns Duration as a time.Duration.
func (c EffectConfig) Lifetime() time.Duration {
	return time.Duration(c.Duration) * time.Millisecond
}

// Catalog is the full set of gameplay tables. A Catalog is read-only once
// loaded and may be shared between sessions.
type Catalog struct {
	Enemies      []EnemyConfig       `yaml:"enemies"`
	Barriers     []BarrierConfig     `yaml:"barriers"`
	Collectibles []CollectibleConfig `yaml:"collectibles"`
	Missiles     []MissileConfig     `yaml:"missiles"`
	Explosions   []EffectConfig      `yaml:"explosions"`
	Sparks       []EffectConfig      `yaml:"sparks"`
}

// Enemy returns the config for id.
func (c *Catalog) Enemy(id EnemyType) (EnemyConfig, error) {
	for _, e := range c.Enemies {
		if e.ID == id {
			return e, nil
		}
	}
	return EnemyConfig{}, fmt.Errorf("%w: %q", ErrUnknownEnemy, id)
}

// Barrier returns the config for id.
func (c *Catalog) Barrier(id BarrierType) (BarrierConfig, error) {
	for _, b := range c.Barriers {
		if b.ID == id {
			return b, nil
		}
	}
	return BarrierConfig{}, fmt.Errorf("%w: %q", ErrUnknownBarrier, id)
}

// Collectible returns the config for id.
func (c *Catalog) Collectible(id CollectibleType) (CollectibleConfig, error) {
	for _, col := range c.Collectibles {
		if col.ID == id {
			return col, nil
		}
	}
	return CollectibleConfig{}, fmt.Errorf("%w: %q", ErrUnknownCollectible, id)
}

// Missile returns the config for id.
func (c *Catalog) Missile(id MissileType) (MissileConfig, error) {
	for _, m := range c.Missiles {
		if m.ID == id {
			return m, nil
		}
	}
	return MissileConfig{}, fmt.Errorf("%w: %q", ErrUnknownMissile, id)
}

// EnemyColor returns the render color for id, white if it is unknown.
func (c *Catalog) EnemyColor(id EnemyType) string {
	if e, err := c.Enemy(id); err == nil {
		return e.Color
	}
	return "#ffffff"
}

// Explosion returns the explosion variant for a bullet type, falling back
// to the normal variant.
func (c *Catalog) Explosion(id MissileType) EffectConfig {
	return lookupEffect(c.Explosions, string(id), string(MissileNormal))
}

// Spark returns the spark variant for id, falling back to the default variant.
func (c *Catalog) Spark(id SparkType) EffectConfig {
	return lookupEffect(c.Sparks, string(id), string(SparkDefault))
}

func lookupEffect(effects []EffectConfig, id, fallback string) EffectConfig {
	var fb EffectConfig
	for _, e := range effects {
		if e.ID == id {
			return e
		}
		if e.ID == fallback {
			fb = e
		}
	}
	return fb
}

// AutomaticMissiles lists the missiles the player may select for the fire timer.
func (c *Catalog) AutomaticMissiles() []MissileType {
	out := make([]MissileType, 0, len(c.Missiles))
	for _, m := range c.Missiles {
		if m.Automatic() {
			out = append(out, m.ID)
		}
	}
	return out
}
