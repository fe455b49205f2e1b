/*
Package cache implements the bounded, thread-safe LRU store at the
core of linecache.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

The store combines two data structures:

 1. Hash Map (map[string]*list.Element)
    - Provides O(1) key lookup.
    - Maps keys to their corresponding recency-list elements.

 2. Doubly Linked List (*list.List)
    - Maintains recency ordering.
    - Most recently used entries sit at the front.
    - The least recently used entry sits at the back, ready for
      eviction.

================================================================================
CONCURRENCY MODEL
================================================================================

A single sync.RWMutex guards both the map and the list. Every
operation that touches recency (Get, InsertOrUpdate) takes the
exclusive lock, since both paths reorder the list. Stats(), Len() and
Capacity() take the read lock, since they only observe state.

================================================================================
NON-GOAL: TTL EXPIRATION
================================================================================

ExpTime is accepted on InsertOrUpdate and returned by Get, but nothing
in this package ever reads it to decide eviction. Capacity pressure is
the only eviction trigger (see eviction.go). This is an explicit
protocol non-goal, not an oversight.
*/
package cache

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

// Store is a bounded, thread-safe, recency-ordered key/value store.
type Store struct {
	data     map[string]*list.Element
	order    *list.List // element.Value is *Entry, front is MRU, back is LRU
	mu       sync.RWMutex
	capacity int

	stats Stats

	reportInterval int64 // nanoseconds; 0 disables the reporter
	reportStop     chan struct{}
	reportDone     chan struct{}
	logger         Logger
}

// DefaultCapacity is the store's default maximum resident entry count.
const DefaultCapacity = 5000

// New builds a Store ready for concurrent use. With no options the
// capacity defaults to DefaultCapacity and no background reporter
// runs.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		capacity:   DefaultCapacity,
		reportStop: make(chan struct{}),
		reportDone: make(chan struct{}),
		logger:     noopLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.capacity <= 0 {
		return nil, errors.Errorf("cache: capacity must be positive, got %d", s.capacity)
	}

	s.startReporter()

	return s, nil
}

// InsertOrUpdate stores value under key, creating a fresh entry or
// overwriting an existing one, and touches key to the head of the
// recency order. When the store is at capacity and key is new, the
// tail entry is evicted first.
//
// InsertOrUpdate returns an error only for structural precondition
// violations at this layer (a nil value); wire-level validation (key
// charset, byte limits) happens in the protocol package before the
// store is ever called.
func (s *Store) InsertOrUpdate(key string, flags uint16, expTime uint64, value []byte) error {
	if value == nil {
		return errors.New("cache: value must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	if elem, found := s.data[key]; found {
		entry := elem.Value.(*Entry)
		entry.Flags = flags
		entry.ExpTime = expTime
		entry.Value = stored
		s.order.MoveToFront(elem)
		return nil
	}

	if s.order.Len() >= s.capacity {
		s.evictOldest()
	}

	entry := &Entry{Key: key, Flags: flags, ExpTime: expTime, Value: stored}
	elem := s.order.PushFront(entry)
	s.data[key] = elem

	return nil
}

// Get looks up key, touching it to the head of the recency order on a
// hit. The returned Entry is an independent copy; the store retains
// sole ownership of its internal buffers.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, found := s.data[key]
	if !found {
		s.stats.Misses++
		return Entry{}, false
	}

	entry := elem.Value.(*Entry)
	s.order.MoveToFront(elem)
	s.stats.Hits++
	return entry.clone(), true
}

// Len returns the current resident entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Capacity returns the configured maximum entry count.
func (s *Store) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

// Stats returns a snapshot of hit/miss/eviction counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Close stops the background reporter, if one was configured. It is
// safe to call Close on a Store built without WithReportInterval.
func (s *Store) Close() {
	select {
	case <-s.reportStop:
		// already closed
	default:
		close(s.reportStop)
	}
	if s.reportInterval > 0 {
		<-s.reportDone
	}
}
