// Package persist saves the part of a session that survives restarts:
// the score and the remaining health.
package persist

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Record is the persisted slice of game state.
type Record struct {
	Score  int `yaml:"score"`
	Health int `yaml:"health"`
}

// Store loads and saves a Record. ok is false when nothing was saved yet.
type Store interface {
	Load() (rec Record, ok bool, err error)
	Save(rec Record) error
}

const recordProperty = "record"

// GdataStore keeps one record per player in the platform data directory.
// A nil manager gives a store that never finds anything and drops saves.
type GdataStore struct {
	manager *gdata.Manager
	object  string
}

// OpenGdata opens the data directory for appName.
func OpenGdata(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open data dir for %s: %w", appName, err)
	}
	return m, nil
}

// NewGdataStore creates a store for player under manager.
func NewGdataStore(manager *gdata.Manager, player string) *GdataStore {
	return &GdataStore{manager: manager, object: objectName(player)}
}

// Load reads the player's record.
func (s *GdataStore) Load() (Record, bool, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(s.object, recordProperty) {
		return Record{}, false, nil
	}
	data, err := s.manager.LoadObjectProp(s.object, recordProperty)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to load record %s: %w", s.object, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("failed to unmarshal record %s: %w", s.object, err)
	}
	return rec, true, nil
}

// Save writes the player's record.
func (s *GdataStore) Save(rec Record) error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.manager.SaveObjectProp(s.object, recordProperty, data); err != nil {
		return fmt.Errorf("failed to save record %s: %w", s.object, err)
	}
	return nil
}

// objectName maps a player name to a safe storage object name.
func objectName(player string) string {
	var b strings.Builder
	b.WriteString("player_")
	for _, r := range strings.ToLower(player) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == len("player_") {
		b.WriteString("local")
	}
	return b.String()
}

// MemoryStore keeps the record in memory.
type MemoryStore struct {
	mu    sync.Mutex
	rec   Record
	saved bool
}

func (s *MemoryStore) Load() (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, s.saved, nil
}

func (s *MemoryStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.saved = true
	return nil
}

var (
	_ Store = (*GdataStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
