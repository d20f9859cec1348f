package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/persist"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

var t0 = time.Unix(1_700_000_000, 0)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(Options{
		Screen: object.Screen{Width: 400, Height: 800},
		Rand:   fixedRand(0.5),
	})
	s.Quiet()
	return s
}

func enemyAt(t *testing.T, id catalog.EnemyType, x, y float64) object.Enemy {
	t.Helper()
	cfg, err := catalog.Default().Enemy(id)
	if err != nil {
		t.Fatal(err)
	}
	e := object.NewEnemy(cfg, x)
	e.Y = y
	return e
}

func bulletAt(t *testing.T, id catalog.MissileType, x, y float64) object.Bullet {
	t.Helper()
	cfg, err := catalog.Default().Missile(id)
	if err != nil {
		t.Fatal(err)
	}
	return object.NewBullet(cfg, x, y)
}

func barrierAt(t *testing.T, id catalog.BarrierType, opening, y float64) object.Barrier {
	t.Helper()
	cfg, err := catalog.Default().Barrier(id)
	if err != nil {
		t.Fatal(err)
	}
	b := object.NewBarrier(cfg, opening)
	b.Y = y
	return b
}

func collectibleAt(t *testing.T, id catalog.CollectibleType, x, y float64) object.Collectible {
	t.Helper()
	cfg, err := catalog.Default().Collectible(id)
	if err != nil {
		t.Fatal(err)
	}
	c := object.NewCollectible(cfg, x)
	c.Y = y
	return c
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	if snap.Health != config.InitialHealth || snap.Score != 0 || snap.GameOver {
		t.Errorf("state = %+v, want fresh game", snap.GameState)
	}
	if snap.Player.X != 200 || snap.Player.Y != 620 {
		t.Errorf("player = %+v, want (200, 620)", snap.Player)
	}
	if snap.Weapon != catalog.MissileNormal || snap.FireInterval != 700*time.Millisecond {
		t.Errorf("weapon = %s every %v, want normal every 700ms", snap.Weapon, snap.FireInterval)
	}
}

func TestFirstStepOnlySetsBaseline(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.2))

	if err := s.Step(t0); err != nil {
		t.Fatal(err)
	}
	if got := s.enemies[0].Y; got != 0.2 {
		t.Errorf("y after first step = %v, want 0.2", got)
	}

	if err := s.Step(t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if got := s.enemies[0].Y; got < 0.2999 || got > 0.3001 {
		t.Errorf("y after 1s = %v, want 0.3", got)
	}
}

func TestBulletEnemyBoundary(t *testing.T) {
	tests := []struct {
		name    string
		bulletY float64
		wantHit bool
	}{
		{"5px below enemy", 145, true},
		{"6px below enemy", 146, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.125))
			s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 200, tt.bulletY))

			if err := s.ResolveCollisions(); err != nil {
				t.Fatal(err)
			}
			hit := len(s.enemies) == 0
			if hit != tt.wantHit {
				t.Errorf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && len(s.bullets) != 0 {
				t.Error("regular bullet survived its kill")
			}
		})
	}
}

func TestScoreUsesMultiplier(t *testing.T) {
	tests := []struct {
		bullet    catalog.MissileType
		wantScore int
	}{
		{catalog.MissileNormal, 1},
		{catalog.MissileSpecial, 2},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.125))
		s.PlaceBullet(bulletAt(t, tt.bullet, 200, 145))
		if err := s.ResolveCollisions(); err != nil {
			t.Fatal(err)
		}
		if s.state.Score != tt.wantScore {
			t.Errorf("%s: score = %d, want %d", tt.bullet, s.state.Score, tt.wantScore)
		}
		if len(s.explosions) != 1 {
			t.Errorf("%s: explosions = %d, want 1", tt.bullet, len(s.explosions))
		}
	}
}

func TestAreaBulletPierces(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.3, 0.125))
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.7, 0.125))
	s.PlaceBullet(bulletAt(t, catalog.MissileSpecial, 200, 145))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if len(s.enemies) != 0 {
		t.Errorf("enemies left = %d, want 0", len(s.enemies))
	}
	if len(s.bullets) != 1 {
		t.Errorf("bullets = %d, want the area bullet to survive", len(s.bullets))
	}
	if s.state.Score != 4 {
		t.Errorf("score = %d, want 4", s.state.Score)
	}
}

func TestRegularBulletKillsOneEnemy(t *testing.T) {
	s := newTestSession(t)
	first := enemyAt(t, catalog.EnemyRed, 0.5, 0.125)
	s.PlaceEnemy(first)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.125))
	s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 200, 145))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if len(s.enemies) != 1 || s.enemies[0].ID != first.ID {
		t.Fatalf("enemies = %+v, want only the first one left", s.enemies)
	}
	if len(s.bullets) != 0 {
		t.Error("bullet survived")
	}
}

func TestPlayerEnemyCollision(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyOrange, 0.5, 0.75))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if s.state.Health != 2 {
		t.Errorf("health = %d, want 2", s.state.Health)
	}
	if len(s.enemies) != 0 || len(s.sparks) != 1 {
		t.Errorf("enemies = %d, sparks = %d; want 0 and 1", len(s.enemies), len(s.sparks))
	}
	if s.sparks[0].Type != catalog.SparkDefault {
		t.Errorf("spark = %s, want default", s.sparks[0].Type)
	}
}

func TestPlayerBarrierGap(t *testing.T) {
	tests := []struct {
		name       string
		opening    float64
		playerX    float64
		barrierY   float64
		wantHealth int
	}{
		{"inside opening", 0.4, 200, 0.75, 3},
		{"outside opening", 0.4, 100, 0.75, 2},
		{"barrier above", 0.4, 100, 0.1, 3},
		// Opening [0.5, 0.75] is [200px, 300px] on a 400px area.
		{"left edge", 0.5, 200, 0.75, 3},
		{"1px left of opening", 0.5, 199, 0.75, 2},
		{"right edge", 0.5, 300, 0.75, 3},
		{"1px right of opening", 0.5, 301, 0.75, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			s.SetPlayerX(tt.playerX)
			s.barriers = append(s.barriers, barrierAt(t, catalog.BarrierClassic, tt.opening, tt.barrierY))

			if err := s.ResolveCollisions(); err != nil {
				t.Fatal(err)
			}
			if s.state.Health != tt.wantHealth {
				t.Errorf("health = %d, want %d", s.state.Health, tt.wantHealth)
			}
			wantBarriers := 1
			if tt.wantHealth < 3 {
				wantBarriers = 0
			}
			if len(s.barriers) != wantBarriers {
				t.Errorf("barriers = %d, want %d", len(s.barriers), wantBarriers)
			}
		})
	}
}

func TestAreaBulletBreaksBarrier(t *testing.T) {
	s := newTestSession(t)
	s.barriers = append(s.barriers, barrierAt(t, catalog.BarrierFire, 0.4, 0.3))
	s.PlaceBullet(bulletAt(t, catalog.MissileSpecial, 200, 300))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if len(s.barriers) != 0 {
		t.Error("barrier survived")
	}
	if s.state.Score != 2 {
		t.Errorf("score = %d, want fire barrier damage 2", s.state.Score)
	}
	if len(s.bullets) != 1 || len(s.explosions) != 1 || len(s.sparks) != 1 {
		t.Errorf("bullets %d, explosions %d, sparks %d; want 1 each", len(s.bullets), len(s.explosions), len(s.sparks))
	}
}

func TestRegularBulletIgnoresBarrier(t *testing.T) {
	s := newTestSession(t)
	s.barriers = append(s.barriers, barrierAt(t, catalog.BarrierFire, 0.4, 0.3))
	s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 50, 250))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if len(s.barriers) != 1 || s.state.Score != 0 {
		t.Errorf("barriers = %d, score = %d; want 1 and 0", len(s.barriers), s.state.Score)
	}
}

func TestGameOverFreezesWorld(t *testing.T) {
	s := newTestSession(t)
	s.state.Health = 1
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.75))
	s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 50, 400))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if s.state.Health != 0 || !s.state.GameOver {
		t.Fatalf("state = %+v, want game over at 0 health", s.state)
	}

	_ = s.Step(t0)
	_ = s.Step(t0.Add(time.Second))
	if s.bullets[0].Y != 400 {
		t.Errorf("bullet moved to %v after game over", s.bullets[0].Y)
	}
	_ = s.FireAutomatic()
	_ = s.FireSpecial()
	if len(s.bullets) != 1 {
		t.Errorf("bullets = %d, want no new shots after game over", len(s.bullets))
	}
}

func TestDamageClampsAtZero(t *testing.T) {
	s := newTestSession(t)
	s.state.Health = 2
	s.barriers = append(s.barriers, barrierAt(t, catalog.BarrierPlasma, 0.0, 0.75))
	s.SetPlayerX(300)

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if s.state.Health != 0 || !s.state.GameOver {
		t.Errorf("state = %+v, want health 0 and game over", s.state)
	}
}

func TestEscapePenalty(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyPurple, 0.5, 1.04))
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.2, 1.0))

	_ = s.Step(t0)
	if err := s.Step(t0.Add(100 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if len(s.enemies) != 1 {
		t.Fatalf("enemies = %d, want only the slower red one left", len(s.enemies))
	}
	if s.state.Health != 2 {
		t.Errorf("health = %d, want 2 after purple escaped", s.state.Health)
	}
}

func TestWeaponPickupExpires(t *testing.T) {
	s := newTestSession(t)
	_ = s.Step(t0)
	s.collectibles = append(s.collectibles, collectibleAt(t, catalog.CollectibleSniper, 0.5, 0.775))

	if err := s.ResolveCollisions(); err != nil {
		t.Fatal(err)
	}
	if s.state.ActiveWeapon != catalog.MissileSniper {
		t.Fatalf("active weapon = %q, want sniper", s.state.ActiveWeapon)
	}
	if !s.state.WeaponEndTime.Equal(t0.Add(15 * time.Second)) {
		t.Errorf("weapon end = %v, want t0+15s", s.state.WeaponEndTime)
	}
	if got := s.FireInterval(); got != 1200*time.Millisecond {
		t.Errorf("fire interval = %v, want 1200ms", got)
	}

	_ = s.Step(t0.Add(14 * time.Second))
	if s.state.ActiveWeapon != catalog.MissileSniper {
		t.Error("weapon expired early")
	}

	_ = s.Step(t0.Add(15 * time.Second))
	if s.state.ActiveWeapon != "" || !s.state.WeaponEndTime.IsZero() {
		t.Errorf("override not cleared: %+v", s.state)
	}
	if got := s.FireInterval(); got != 700*time.Millisecond {
		t.Errorf("fire interval = %v, want 700ms", got)
	}
}

func TestHealthPickupCapped(t *testing.T) {
	tests := []struct {
		start, want int
	}{
		{3, 4},
		{config.MaxHealth, config.MaxHealth},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		s.state.Health = tt.start
		s.collectibles = append(s.collectibles, collectibleAt(t, catalog.CollectibleHealth, 0.5, 0.775))
		if err := s.ResolveCollisions(); err != nil {
			t.Fatal(err)
		}
		if s.state.Health != tt.want {
			t.Errorf("health from %d = %d, want %d", tt.start, s.state.Health, tt.want)
		}
	}
}

func TestSetActiveMissile(t *testing.T) {
	s := newTestSession(t)

	if err := s.SetActiveMissile(catalog.MissileSpecial); !errors.Is(err, ErrNotAutomatic) {
		t.Errorf("select special error = %v, want ErrNotAutomatic", err)
	}
	if err := s.SetActiveMissile("rocket"); !errors.Is(err, catalog.ErrUnknownMissile) {
		t.Errorf("select rocket error = %v, want ErrUnknownMissile", err)
	}
	if err := s.SetActiveMissile(catalog.MissileShotgun); err != nil {
		t.Fatalf("select shotgun error = %v", err)
	}
	if got := s.FireInterval(); got != time.Second {
		t.Errorf("fire interval = %v, want 1s", got)
	}

	_ = s.FireAutomatic()
	if len(s.bullets) != 1 || s.bullets[0].Type != catalog.MissileShotgun {
		t.Fatalf("bullets = %+v, want one shotgun bullet", s.bullets)
	}
	if s.bullets[0].X != 200 || s.bullets[0].Y != 590 {
		t.Errorf("bullet at (%v, %v), want (200, 590)", s.bullets[0].X, s.bullets[0].Y)
	}
}

func TestChargedSpecial(t *testing.T) {
	s := newTestSession(t)
	_ = s.Step(t0)

	s.BeginCharge()
	_ = s.FireAutomatic()
	if len(s.bullets) != 0 {
		t.Fatal("automatic fire while charging")
	}

	_ = s.Step(t0.Add(500 * time.Millisecond))
	if snap := s.Snapshot(); !snap.Charging || snap.ChargeProgress < 0.49 || snap.ChargeProgress > 0.51 {
		t.Errorf("charging = %v at %v, want half charged", snap.Charging, snap.ChargeProgress)
	}

	_ = s.Step(t0.Add(time.Second))
	if s.charging {
		t.Error("still charging after charge time")
	}
	if len(s.bullets) != 1 || s.bullets[0].Type != catalog.MissileSpecial {
		t.Errorf("bullets = %+v, want one special", s.bullets)
	}

	s.BeginCharge()
	s.CancelCharge()
	_ = s.Step(t0.Add(3 * time.Second))
	if s.charging {
		t.Error("cancelled charge still active")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestSession(t)
	_ = s.Step(t0)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.75))
	s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 10, 10))
	s.collectibles = append(s.collectibles, collectibleAt(t, catalog.CollectibleSniper, 0.5, 0.775))
	_ = s.ResolveCollisions()
	s.state.Score = 50
	s.SetPlayerX(50)
	epoch := s.epoch

	s.Reset()
	snap := s.Snapshot()
	if snap.Score != 0 || snap.Health != config.InitialHealth || snap.GameOver {
		t.Errorf("state = %+v after reset", snap.GameState)
	}
	if len(snap.Bullets)+len(snap.Enemies)+len(snap.Collectibles)+len(snap.Sparks)+len(snap.Explosions) != 0 {
		t.Error("collections not cleared")
	}
	if snap.Player.X != 200 || snap.ActiveWeapon != "" || snap.Epoch != epoch+1 {
		t.Errorf("player %v, weapon %q, epoch %d after reset", snap.Player.X, snap.ActiveWeapon, snap.Epoch)
	}
	if !s.lastFrame.IsZero() {
		t.Error("baseline kept across reset")
	}
}

func TestPauseAndResume(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.2))
	_ = s.Step(t0)

	s.Pause()
	_ = s.Step(t0.Add(time.Second))
	if s.enemies[0].Y != 0.2 {
		t.Error("world moved while paused")
	}

	s.Resume()
	_ = s.Step(t0.Add(5 * time.Second))
	if s.enemies[0].Y != 0.2 {
		t.Error("first step after resume moved the world")
	}
	_ = s.Step(t0.Add(6 * time.Second))
	if s.enemies[0].Y <= 0.2 {
		t.Error("world did not move after resume")
	}
}

func TestAckEffect(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.125))
	s.PlaceBullet(bulletAt(t, catalog.MissileNormal, 200, 145))
	_ = s.ResolveCollisions()

	id := s.explosions[0].ID
	if !s.AckEffect(id) {
		t.Fatal("AckEffect returned false for pending explosion")
	}
	if s.AckEffect(id) {
		t.Error("AckEffect succeeded twice")
	}
	if len(s.explosions) != 0 {
		t.Error("explosion still pending")
	}
}

func TestBarrierSpawnWaitsForClearance(t *testing.T) {
	s := newTestSession(t)
	s.barrierSpawner.Interval = config.BarrierSpawnInterval
	blocker := barrierAt(t, catalog.BarrierClassic, 0.4, 0.1)
	blocker.Speed = 0
	s.barriers = append(s.barriers, blocker)

	_ = s.Step(t0)
	_ = s.Step(t0.Add(config.BarrierSpawnInterval))
	if len(s.barriers) != 1 {
		t.Fatalf("barriers = %d, want spawn blocked", len(s.barriers))
	}

	s.barriers[0].Y = 0.5
	_ = s.Step(t0.Add(config.BarrierSpawnInterval + 16*time.Millisecond))
	if len(s.barriers) != 2 {
		t.Errorf("barriers = %d, want a spawn as soon as the way is clear", len(s.barriers))
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		rec          persist.Record
		wantScore    int
		wantHealth   int
		wantGameOver bool
	}{
		{persist.Record{Score: 12, Health: 2}, 12, 2, false},
		{persist.Record{Score: 5, Health: 0}, 5, 0, true},
		{persist.Record{Score: -3, Health: 9}, 0, config.MaxHealth, false},
	}
	for _, tt := range tests {
		s := newTestSession(t)
		s.Restore(tt.rec)
		st := s.State()
		if st.Score != tt.wantScore || st.Health != tt.wantHealth || st.GameOver != tt.wantGameOver {
			t.Errorf("Restore(%+v) = %+v", tt.rec, st)
		}
		if got := s.Record(); got.Score != tt.wantScore || got.Health != tt.wantHealth {
			t.Errorf("Record() = %+v", got)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSession(t)
	s.PlaceEnemy(enemyAt(t, catalog.EnemyRed, 0.5, 0.2))

	snap := s.Snapshot()
	snap.Enemies[0].Y = 0.9
	if s.enemies[0].Y != 0.2 {
		t.Error("snapshot aliases session state")
	}
}

func TestLongRunInvariants(t *testing.T) {
	const multiplier = 3
	s := New(Options{
		Screen:            object.Screen{Width: 400, Height: 800},
		Rand:              rand.New(rand.NewSource(1)),
		EnemiesMultiplier: multiplier,
	})

	prevEnemies := map[string]bool{}
	prevBarriers := map[string]bool{}
	now := t0
	for frame := 0; frame < 60*60; frame++ {
		if frame%40 == 0 {
			_ = s.FireAutomatic()
		}
		if err := s.Step(now); err != nil {
			t.Fatal(err)
		}
		now = now.Add(config.FrameTime)

		snap := s.Snapshot()

		// A frame is far shorter than any spawn interval, so at most one
		// spawn trigger fires per frame.
		enemies, spawned := map[string]bool{}, 0
		for _, e := range snap.Enemies {
			enemies[e.ID] = true
			if !prevEnemies[e.ID] {
				spawned++
			}
		}
		if spawned > multiplier || len(snap.Enemies) > len(prevEnemies)+multiplier {
			t.Fatalf("frame %d: enemies %d -> %d with %d spawned", frame, len(prevEnemies), len(snap.Enemies), spawned)
		}
		barriers, spawned := map[string]bool{}, 0
		for _, b := range snap.Barriers {
			barriers[b.ID] = true
			if !prevBarriers[b.ID] {
				spawned++
			}
		}
		if spawned > 1 || len(snap.Barriers) > 2 {
			t.Fatalf("frame %d: barriers %d -> %d with %d spawned", frame, len(prevBarriers), len(snap.Barriers), spawned)
		}
		prevEnemies, prevBarriers = enemies, barriers

		if snap.GameOver != (snap.Health <= 0) || snap.Health < 0 {
			t.Fatalf("frame %d: state %+v breaks the health invariant", frame, snap.GameState)
		}
		seen := make(map[string]bool)
		check := func(id string) {
			if seen[id] {
				t.Fatalf("frame %d: duplicate id %s", frame, id)
			}
			seen[id] = true
		}
		for _, b := range snap.Bullets {
			check(b.ID)
		}
		for _, e := range snap.Enemies {
			check(e.ID)
		}
		for _, b := range snap.Barriers {
			check(b.ID)
		}
		for _, c := range snap.Collectibles {
			check(c.ID)
		}
	}
}

func TestHealthInvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(Options{Screen: object.Screen{Width: 400, Height: 800}, Rand: fixedRand(0.5)})
		s.Quiet()
		now := t0
		_ = s.Step(now)

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := range steps {
			switch rapid.IntRange(0, 4).Draw(rt, "action") {
			case 0:
				s.enemies = append(s.enemies, enemyAt(t, catalog.EnemyRed, 0.5, 0.75))
			case 1:
				s.collectibles = append(s.collectibles, collectibleAt(t, catalog.CollectibleHealth, 0.5, 0.775))
			case 2:
				s.barriers = append(s.barriers, barrierAt(t, catalog.BarrierPlasma, 0, 0.75))
				s.SetPlayerX(350)
			case 3:
				s.Reset()
			case 4:
				s.Restore(persist.Record{Health: rapid.IntRange(-5, 10).Draw(rt, "health")})
			}
			now = now.Add(config.FrameTime)
			if err := s.Step(now); err != nil {
				rt.Fatal(err)
			}

			st := s.State()
			if st.Health < 0 || st.Health > config.MaxHealth {
				rt.Fatalf("step %d: health %d out of range", i, st.Health)
			}
			if st.GameOver != (st.Health <= 0) {
				rt.Fatalf("step %d: game over %v with health %d", i, st.GameOver, st.Health)
			}
		}
	})
}
