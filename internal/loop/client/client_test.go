package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/session"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/persist"
)

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		termW, termH                   int
		wantW, wantH, wantCol, wantRow int
	}{
		{80, 50, 50, 50, 15, 0},
		{200, 100, 50, 50, 75, 25},
		{30, 20, 30, 20, 0, 0},
		{100, 24, 40, 24, 30, 0},
	}
	for _, tt := range tests {
		w, h, col, row := clampTermSize(tt.termW, tt.termH)
		if w != tt.wantW || h != tt.wantH || col != tt.wantCol || row != tt.wantRow {
			t.Errorf("clampTermSize(%d, %d) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
				tt.termW, tt.termH, w, h, col, row, tt.wantW, tt.wantH, tt.wantCol, tt.wantRow)
		}
	}
}

func newTestClient(t *testing.T, r io.Reader, w io.Writer) (*Client, *persist.MemoryStore) {
	t.Helper()
	sink := session.NewChannelSink(64)
	s := session.New(session.Options{Sink: sink})
	store := &persist.MemoryStore{}
	d := session.NewDriver(s, session.DriverOptions{Store: store})
	c := NewClient(d, sink.C, catalog.Default(), bufio.NewReader(r), w, ClientOptions{
		TermSizeFunc: draw.FixedTermSize(80, 50),
		Username:     "tester",
	})
	return c, store
}

func TestEffectsAreAcknowledgedAfterLifetime(t *testing.T) {
	c, _ := newTestClient(t, strings.NewReader(""), io.Discard)
	now := time.Now()

	c.handleEvent(session.Event{Type: session.EventExplosion, X: 100, Y: 100, EffectID: "boom", Bullet: catalog.MissileNormal}, now)
	c.handleEvent(session.Event{Type: session.EventSpark, X: 50, Y: 50, EffectID: "zap", Spark: catalog.SparkSubtle}, now)

	want := catalog.Default().Explosion(catalog.MissileNormal).ParticleCount +
		catalog.Default().Spark(catalog.SparkSubtle).ParticleCount
	if len(c.state.particles) != want {
		t.Fatalf("particles = %d, want %d", len(c.state.particles), want)
	}
	if len(c.state.effects) != 2 {
		t.Fatalf("pending effects = %d, want 2", len(c.state.effects))
	}

	c.state.delta = 16 * time.Millisecond
	c.updateEffects(now.Add(100 * time.Millisecond))
	if len(c.state.effects) != 2 {
		t.Error("effects acknowledged early")
	}

	c.state.delta = 2 * time.Second
	c.updateEffects(now.Add(2 * time.Second))
	if len(c.state.effects) != 0 {
		t.Errorf("pending effects = %d, want all acknowledged", len(c.state.effects))
	}
	if len(c.state.particles) != 0 {
		t.Errorf("particles = %d, want all expired", len(c.state.particles))
	}
}

func TestReconcilePlaysDroppedEffects(t *testing.T) {
	c, _ := newTestClient(t, strings.NewReader(""), io.Discard)
	cat := catalog.Default()
	now := time.Now()

	// "boom" arrived as an event; "lost" and "zap" were dropped by the sink.
	c.handleEvent(session.Event{Type: session.EventExplosion, EffectID: "boom", Bullet: catalog.MissileSpecial}, now)
	snap := &session.Snapshot{
		Explosions: []object.Explosion{
			{ID: "boom", X: 10, Y: 10, BulletType: catalog.MissileSpecial},
			{ID: "lost", X: 20, Y: 20, BulletType: catalog.MissileSpecial},
		},
		Sparks: []object.Spark{{ID: "zap", X: 30, Y: 30, Type: catalog.SparkSubtle}},
	}
	c.reconcileEffects(snap, now)
	c.reconcileEffects(snap, now.Add(time.Millisecond))

	if len(c.state.effects) != 3 {
		t.Fatalf("pending effects = %d, want 3", len(c.state.effects))
	}
	want := 2*cat.Explosion(catalog.MissileSpecial).ParticleCount + cat.Spark(catalog.SparkSubtle).ParticleCount
	if len(c.state.particles) != want {
		t.Errorf("particles = %d, want %d", len(c.state.particles), want)
	}

	c.state.delta = 2 * time.Second
	c.updateEffects(now.Add(2 * time.Second))
	if len(c.state.effects) != 0 {
		t.Fatalf("pending effects = %d, want all acknowledged", len(c.state.effects))
	}

	// A snapshot taken before the acknowledgements landed must not replay them.
	c.reconcileEffects(snap, now.Add(2*time.Second))
	if len(c.state.effects) != 0 {
		t.Errorf("acknowledged effects replayed: %d pending", len(c.state.effects))
	}

	c.reconcileEffects(&session.Snapshot{}, now.Add(2*time.Second+config.EffectMemory+time.Millisecond))
	if len(c.state.seen) != 0 {
		t.Errorf("seen effects = %d, want forgotten", len(c.state.seen))
	}
}

func TestCollisionRingsBell(t *testing.T) {
	c, _ := newTestClient(t, strings.NewReader(""), io.Discard)
	c.handleEvent(session.Event{Type: session.EventCollision}, time.Now())
	if !c.state.bell {
		t.Error("bell not set after collision")
	}
}

func TestWeaponEventFlashesMessage(t *testing.T) {
	c, _ := newTestClient(t, strings.NewReader(""), io.Discard)
	c.handleEvent(session.Event{Type: session.EventWeaponChanged, Weapon: catalog.MissileSniper}, time.Now())
	if c.state.message != "weapon: sniper" {
		t.Errorf("message = %q", c.state.message)
	}

	c.state.delta = time.Duration(messageSeconds*float64(time.Second)) + time.Millisecond
	c.updateEffects(time.Now())
	if c.state.message != "" {
		t.Errorf("message = %q after timeout", c.state.message)
	}
}

func TestRunStartPlayQuit(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	c, store := newTestClient(t, pr, &out)

	go func() {
		time.Sleep(100 * time.Millisecond)
		pw.Write([]byte("\r"))
		time.Sleep(300 * time.Millisecond)
		pw.Write([]byte("q"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("client did not quit on q")
	}

	screen := out.String()
	for _, want := range []string{"Controls", "Score:", "\033[?25h"} {
		if !strings.Contains(screen, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if _, saved, _ := store.Load(); !saved {
		t.Error("record not saved on shutdown")
	}
}
