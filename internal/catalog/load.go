package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("embedded tables are invalid: %v", err))
	}
	return c
})

// Default returns the built-in tables. The returned Catalog is shared and
// must not be modified.
func Default() *Catalog {
	return defaultCatalog()
}

// Load reads tables from a YAML file with the same layout as the built-in
// tables. An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML tables. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid tables: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if err := validateEnemies(c.Enemies); err != nil {
		return err
	}
	if err := validateBarriers(c.Barriers); err != nil {
		return err
	}
	if err := validateMissiles(c.Missiles); err != nil {
		return err
	}
	if err := validateCollectibles(c.Collectibles, c); err != nil {
		return err
	}
	if err := validateEffects("explosion", c.Explosions, string(MissileNormal), func(id string) bool {
		return MissileType(id).Valid()
	}); err != nil {
		return err
	}
	return validateEffects("spark", c.Sparks, string(SparkDefault), func(id string) bool {
		return SparkType(id).Valid()
	})
}

func validateChance(kind, id string, chance float64) error {
	if chance < 0 || chance > 1 {
		return fmt.Errorf("%s %s: spawnChance must be within [0,1], got %v", kind, id, chance)
	}
	return nil
}

func validateEnemies(enemies []EnemyConfig) error {
	if len(enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}
	seen := make(map[EnemyType]bool, len(enemies))
	for _, e := range enemies {
		if !e.ID.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownEnemy, e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("enemy %s: duplicate entry", e.ID)
		}
		seen[e.ID] = true
		if e.Speed < 0 {
			return fmt.Errorf("enemy %s: speed cannot be negative, got %v", e.ID, e.Speed)
		}
		if e.Health < 1 {
			return fmt.Errorf("enemy %s: health must be at least 1, got %d", e.ID, e.Health)
		}
		if e.Points < 0 || e.EscapePenalty < 0 {
			return fmt.Errorf("enemy %s: points and escapePenalty cannot be negative", e.ID)
		}
		if err := validateChance("enemy", string(e.ID), e.SpawnChance); err != nil {
			return err
		}
	}
	return nil
}

func validateBarriers(barriers []BarrierConfig) error {
	if len(barriers) == 0 {
		return fmt.Errorf("at least one barrier type is required")
	}
	seen := make(map[BarrierType]bool, len(barriers))
	for _, b := range barriers {
		if !b.ID.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownBarrier, b.ID)
		}
		if seen[b.ID] {
			return fmt.Errorf("barrier %s: duplicate entry", b.ID)
		}
		seen[b.ID] = true
		if b.Speed < 0 || b.Damage < 0 {
			return fmt.Errorf("barrier %s: speed and damage cannot be negative", b.ID)
		}
		if b.SegmentCount < 1 || b.SegmentWidth <= 0 || b.SegmentHeight <= 0 || b.SegmentGap < 0 {
			return fmt.Errorf("barrier %s: invalid segment geometry", b.ID)
		}
		if b.OpeningWidth <= 0 || b.OpeningWidth >= 1 {
			return fmt.Errorf("barrier %s: openingWidth must be within (0,1), got %v", b.ID, b.OpeningWidth)
		}
		if err := validateChance("barrier", string(b.ID), b.SpawnChance); err != nil {
			return err
		}
	}
	return nil
}

func validateMissiles(missiles []MissileConfig) error {
	seen := make(map[MissileType]bool, len(missiles))
	for _, m := range missiles {
		if !m.ID.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownMissile, m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("missile %s: duplicate entry", m.ID)
		}
		seen[m.ID] = true
		if m.Radius <= 0 || m.CollisionRadiusMultiplier <= 0 {
			return fmt.Errorf("missile %s: radius and collisionRadiusMultiplier must be positive", m.ID)
		}
		if m.ScoreMultiplier < 1 {
			return fmt.Errorf("missile %s: scoreMultiplier must be at least 1, got %d", m.ID, m.ScoreMultiplier)
		}
		if m.FireRate < 0 {
			return fmt.Errorf("missile %s: fireRate cannot be negative, got %d", m.ID, m.FireRate)
		}
		if m.ID == MissileSpecial && m.FireRate != 0 {
			return fmt.Errorf("missile %s: must be manual (fireRate 0)", m.ID)
		}
		if m.ID != MissileSpecial && m.FireRate == 0 {
			return fmt.Errorf("missile %s: automatic missiles need a fireRate", m.ID)
		}
		if !m.Haptic.Valid() {
			return fmt.Errorf("missile %s: unknown haptic %q", m.ID, m.Haptic)
		}
	}
	if !seen[MissileNormal] || !seen[MissileSpecial] {
		return fmt.Errorf("missiles %q and %q are required", MissileNormal, MissileSpecial)
	}
	return nil
}

func validateCollectibles(collectibles []CollectibleConfig, c *Catalog) error {
	if len(collectibles) == 0 {
		return fmt.Errorf("at least one collectible type is required")
	}
	seen := make(map[CollectibleType]bool, len(collectibles))
	for _, col := range collectibles {
		if !col.ID.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCollectible, col.ID)
		}
		if seen[col.ID] {
			return fmt.Errorf("collectible %s: duplicate entry", col.ID)
		}
		seen[col.ID] = true
		if col.Speed < 0 || col.BonusValue < 0 || col.Duration < 0 {
			return fmt.Errorf("collectible %s: speed, bonusValue and duration cannot be negative", col.ID)
		}
		if err := validateChance("collectible", string(col.ID), col.SpawnChance); err != nil {
			return err
		}
		if weapon, ok := col.ID.Weapon(); ok {
			if _, err := c.Missile(weapon); err != nil {
				return fmt.Errorf("collectible %s: %w", col.ID, err)
			}
		}
	}
	return nil
}

func validateEffects(kind string, effects []EffectConfig, fallback string, valid func(string) bool) error {
	hasFallback := false
	for _, e := range effects {
		if !valid(e.ID) {
			return fmt.Errorf("%s %q: unknown variant", kind, e.ID)
		}
		if e.Duration <= 0 {
			return fmt.Errorf("%s %s: duration must be positive", kind, e.ID)
		}
		if e.ID == fallback {
			hasFallback = true
		}
	}
	if !hasFallback {
		return fmt.Errorf("%s variant %q is required", kind, fallback)
	}
	return nil
}
