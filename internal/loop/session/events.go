package session

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

import (
	"fmt"

	"github.com/tomz197/skyraid/internal/catalog"
)

// EventType identifies what happened during a step.
type EventType int

const (
	EventExplosion EventType = iota
	EventSpark
	EventScoreChanged
	EventHealthChanged
	EventShootFired
	EventSpecialFired
	EventCollision
	EventEnemyKilled
	EventCollectiblePicked
	EventWeaponChanged
	EventGameOver
)

var eventNames = [...]string{
	EventExplosion:         "explosion",
	EventSpark:             "spark",
	EventScoreChanged:      "score",
	EventHealthChanged:     "health",
	EventShootFired:        "shoot",
	EventSpecialFired:      "special",
	EventCollision:         "collision",
	EventEnemyKilled:       "kill",
	EventCollectiblePicked: "pickup",
	EventWeaponChanged:     "weapon",
	EventGameOver:          "game-over",
}

func (t EventType) String() string {
	if int(t) >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is a notification for renderers, audio and haptics. Only the fields
// relevant to Type are set.
type Event struct {
	Type EventType

	X, Y     float64 // pixel position for effects and kills
	EffectID string  // pending explosion or spark id

	Enemy       catalog.EnemyType
	Bullet      catalog.MissileType
	Spark       catalog.SparkType
	Collectible catalog.CollectibleType
	Weapon      catalog.MissileType
	Haptic      catalog.Haptic

	Score  int
	Health int
}

// Sink receives events. Emit is called on the goroutine that steps the
// session and must not block.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

type discardSink struct{}

func (discardSink) Emit(Event) {}

// ChannelSink delivers events on a buffered channel. Events are dropped
// when the reader falls behind.
type ChannelSink struct {
	C chan Event
}

// NewChannelSink creates a sink buffering up to size events.
func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{C: make(chan Event, size)}
}

func (s *ChannelSink) Emit(ev Event) {
	select {
	case s.C <- ev:
	default:
	}
}

var (
	_ Sink = SinkFunc(nil)
	_ Sink = (*ChannelSink)(nil)
)
