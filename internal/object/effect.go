package object

import "github.com/tomz197/skyraid/internal/catalog"

// Explosion is a pending explosion effect in pixels. It stays pending until
// the renderer acknowledges it.
type Explosion struct {
	ID         string
	X, Y       float64
	EnemyType  catalog.EnemyType // empty when no enemy was involved
	BulletType catalog.MissileType
}

// NewExplosion creates an explosion at (x, y).
func NewExplosion(x, y float64, enemy catalog.EnemyType, bullet catalog.MissileType) Explosion {
	return Explosion{ID: NewID(), X: x, Y: y, EnemyType: enemy, BulletType: bullet}
}

// Spark is a pending collision spark effect in pixels.
type Spark struct {
	ID   string
	X, Y float64
	Type catalog.SparkType
}

// NewSpark creates a spark at (x, y).
func NewSpark(x, y float64, t catalog.SparkType) Spark {
	return Spark{ID: NewID(), X: x, Y: y, Type: t}
}
