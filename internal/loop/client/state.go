package client

import (
	"time"

	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/object"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStatePaused                    // World frozen, waiting for resume
	GameStateGameOver                  // Ship destroyed, death animation then overlay
	GameStateShutdown                  // Host is shutting down
)

// pendingEffect is an explosion or spark being played. The session is told
// once it has finished.
type pendingEffect struct {
	id    string
	until time.Time
}

// ClientState holds per-connection presentation state. The game itself
// lives in the session.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool
	delta         time.Duration

	particles []*object.Particle
	effects   []pendingEffect
	// seen maps every effect id played recently to when it started, so an
	// effect learned from both an event and a snapshot plays once.
	seen map[string]time.Time

	// deathTimer counts seconds since game over; the overlay waits for the
	// death animation.
	deathTimer          float64
	showGameOverOverlay bool

	bell          bool   // ring the terminal bell on the next frame
	message       string // transient HUD line
	messageTimer  float64
	shutdownTimer float64
	isInactive    bool
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		seen:      make(map[string]time.Time),
	}
}

// flash shows msg in the HUD for a few seconds.
func (s *ClientState) flash(msg string) {
	s.message = msg
	s.messageTimer = messageSeconds
}

const messageSeconds = 2.5
