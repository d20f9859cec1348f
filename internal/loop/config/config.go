// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area in logical pixels. Rendering scales it to fit the terminal.
const (
	AreaWidth  = 400
	AreaHeight = 800
)

// Player
const (
	InitialHealth = 3
	MaxHealth     = 5
)

// Spawning
const (
	EnemySpawnInterval       = 1200 * time.Millisecond
	BarrierSpawnInterval     = 3000 * time.Millisecond
	CollectibleSpawnInterval = 5000 * time.Millisecond
	MaxEnemiesMultiplier     = 10
)

// Weapons
const (
	ChargeTime            = 1000 * time.Millisecond // hold time before a charged special fires
	DefaultWeaponDuration = 15 * time.Second        // weapon pickups without a duration
	FallbackFireInterval  = 700 * time.Millisecond
)

// Simulation tick rate
const (
	FrameRate = 60
	FrameTime = time.Second / FrameRate
)

// Driver queues
const (
	CommandBuffer = 128
	EventBuffer   = 64
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 80  // widest render area in columns
	MaxTermHeight         = 50  // tallest render area in rows
	MinTermWidth          = 40  // narrowest render area when the terminal allows it
	DeathAnimationSeconds = 1.5 // delay before the game over overlay appears
	SteerSpeed            = 420 // ship pixels per second while a direction key is held
	ExplosionSpeed        = 160 // particle pixels per second
	SparkSpeed            = 220
	EffectMemory          = 10 * time.Second // how long a played effect id is remembered
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
