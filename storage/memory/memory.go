// Package memory provides the in-memory implementation of storage.Store.
// It is the default backend: client-side metric data lives in process
// memory until a ping snapshot collects it.
package memory

import (
	"sync"

	"github.com/xraph/beacon/storage"
)

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// pingData holds every metric kind recorded for a single ping.
type pingData struct {
	counters map[string]int32
	strings  map[string]string
	booleans map[string]bool
	events   map[string][]storage.RecordedEvent
}

func newPingData() *pingData {
	return &pingData{
		counters: make(map[string]int32),
		strings:  make(map[string]string),
		booleans: make(map[string]bool),
		events:   make(map[string][]storage.RecordedEvent),
	}
}

func (p *pingData) empty() bool {
	return len(p.counters) == 0 && len(p.strings) == 0 &&
		len(p.booleans) == 0 && len(p.events) == 0
}

// Store is a fully in-memory implementation of storage.Store.
// Safe for concurrent access.
type Store struct {
	mu    sync.RWMutex
	pings map[string]*pingData
}

// New returns a new empty Store.
func New() *Store {
	return &Store{pings: make(map[string]*pingData)}
}

// ping returns the data bucket for a ping, creating it if needed.
// Callers must hold the write lock.
func (s *Store) ping(name string) *pingData {
	p, ok := s.pings[name]
	if !ok {
		p = newPingData()
		s.pings[name] = p
	}
	return p
}

// ──────────────────────────────────────────────────
// Counters
// ──────────────────────────────────────────────────

// AddCounter adds delta to a counter, creating it at zero first.
func (s *Store) AddCounter(pingName, metricID string, delta int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ping(pingName).counters[metricID] += delta
}

// Counter returns the current counter value.
func (s *Store) Counter(pingName, metricID string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pings[pingName]
	if !ok {
		return 0, false
	}
	v, ok := p.counters[metricID]
	return v, ok
}

// ──────────────────────────────────────────────────
// Strings
// ──────────────────────────────────────────────────

// SetString stores a string value, replacing any previous value.
func (s *Store) SetString(pingName, metricID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ping(pingName).strings[metricID] = value
}

// String returns the current string value.
func (s *Store) String(pingName, metricID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pings[pingName]
	if !ok {
		return "", false
	}
	v, ok := p.strings[metricID]
	return v, ok
}

// ──────────────────────────────────────────────────
// Booleans
// ──────────────────────────────────────────────────

// SetBoolean stores a boolean value, replacing any previous value.
func (s *Store) SetBoolean(pingName, metricID string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ping(pingName).booleans[metricID] = value
}

// Boolean returns the current boolean value.
func (s *Store) Boolean(pingName, metricID string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pings[pingName]
	if !ok {
		return false, false
	}
	v, ok := p.booleans[metricID]
	return v, ok
}

// ──────────────────────────────────────────────────
// Events
// ──────────────────────────────────────────────────

// RecordEvent appends an event occurrence.
func (s *Store) RecordEvent(pingName, metricID string, ev storage.RecordedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ping(pingName)
	p.events[metricID] = append(p.events[metricID], ev)
}

// Events returns the recorded events in record order without clearing
// them. The returned slice is a copy so callers can't race the store.
func (s *Store) Events(pingName, metricID string) []storage.RecordedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pings[pingName]
	if !ok {
		return nil
	}
	evs := p.events[metricID]
	if len(evs) == 0 {
		return nil
	}
	out := make([]storage.RecordedEvent, len(evs))
	copy(out, evs)
	return out
}

// ──────────────────────────────────────────────────
// Snapshot / Clear
// ──────────────────────────────────────────────────

// SnapshotPing returns all data stored for a ping grouped by metric
// kind, optionally clearing it. Returns nil when nothing is stored.
func (s *Store) SnapshotPing(pingName string, clear bool) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pings[pingName]
	if !ok || p.empty() {
		return nil
	}

	snapshot := make(map[string]any)
	if len(p.counters) > 0 {
		counters := make(map[string]int32, len(p.counters))
		for k, v := range p.counters {
			counters[k] = v
		}
		snapshot["counter"] = counters
	}
	if len(p.strings) > 0 {
		strs := make(map[string]string, len(p.strings))
		for k, v := range p.strings {
			strs[k] = v
		}
		snapshot["string"] = strs
	}
	if len(p.booleans) > 0 {
		bools := make(map[string]bool, len(p.booleans))
		for k, v := range p.booleans {
			bools[k] = v
		}
		snapshot["boolean"] = bools
	}
	if len(p.events) > 0 {
		events := make(map[string][]storage.RecordedEvent, len(p.events))
		for k, v := range p.events {
			evs := make([]storage.RecordedEvent, len(v))
			copy(evs, v)
			events[k] = evs
		}
		snapshot["event"] = events
	}

	if clear {
		delete(s.pings, pingName)
	}
	return snapshot
}

// Clear wipes all stored data for every ping.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings = make(map[string]*pingData)
}
