package input

import (
	"testing"
	"time"
)

func streamOf(bytes ...byte) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	for _, b := range bytes {
		s.ch <- b
	}
	return s
}

func TestReadInputKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		check func(Input) bool
	}{
		{"quit", []byte("q"), func(in Input) bool { return in.Quit }},
		{"ctrl-c", []byte{3}, func(in Input) bool { return in.Quit }},
		{"left letter", []byte("a"), func(in Input) bool { return in.Left && !in.Right }},
		{"right arrow", []byte("\x1b[C"), func(in Input) bool { return in.Right && !in.Left }},
		{"left arrow", []byte("\x1b[D"), func(in Input) bool { return in.Left }},
		{"charge", []byte(" "), func(in Input) bool { return in.Charge }},
		{"cancel", []byte("x"), func(in Input) bool { return in.Cancel }},
		{"special", []byte("f"), func(in Input) bool { return in.Special }},
		{"pause", []byte("p"), func(in Input) bool { return in.Pause }},
		{"restart", []byte("\r"), func(in Input) bool { return in.Restart }},
		{"missile slot", []byte("3"), func(in Input) bool { return in.Number == 3 }},
		{"up arrow ignored", []byte("\x1b[A"), func(in Input) bool { return !in.Pause && in.Number == -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := readInput(streamOf(tt.bytes...), time.Now())
			if !tt.check(in) {
				t.Errorf("input = %+v", in)
			}
		})
	}
}

func TestHeldKeyExpires(t *testing.T) {
	s := streamOf('d')
	now := time.Now()

	if in := readInput(s, now); !in.Right {
		t.Fatal("right not pressed")
	}
	if in := readInput(s, now.Add(10*time.Millisecond)); !in.Right {
		t.Error("right released within hold duration")
	}
	if in := readInput(s, now.Add(keyHoldDuration)); in.Right {
		t.Error("right still held after hold duration")
	}
}

func TestOneShotKeysDoNotRepeat(t *testing.T) {
	s := streamOf('p')
	now := time.Now()
	if in := readInput(s, now); !in.Pause {
		t.Fatal("pause not pressed")
	}
	if in := readInput(s, now.Add(time.Millisecond)); in.Pause {
		t.Error("pause reported twice for one key press")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := streamOf('a')
	now := time.Now()
	readInput(s, now)
	ResetKeyInput(s)
	if in := readInput(s, now.Add(time.Millisecond)); in.Left {
		t.Error("left still held after reset")
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s := streamOf()
	close(s.ch)
	in := readInput(s, time.Now())
	if !in.Quit || !s.Closed() {
		t.Errorf("input = %+v, closed = %v; want quit", in, s.Closed())
	}
}
