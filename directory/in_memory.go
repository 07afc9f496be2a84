package directory

import (
	"sync"

	"github.com/hupe1980/a2ahost/core"
)

// InMemoryStore is a process-local core.Directory. Reads take an RLock over
// the current snapshot map; Replace builds nothing in place and swaps the
// whole map under the write lock, so List never observes cards from two
// different refresh generations.
type InMemoryStore struct {
	mu    sync.RWMutex
	cards map[string]*core.AgentCard
}

// NewInMemoryStore constructs an empty in-memory directory.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cards: make(map[string]*core.AgentCard)}
}

// Register upserts a card keyed by its id.
func (s *InMemoryStore) Register(card *core.AgentCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ID] = card
}

// List returns all cards in unspecified order.
func (s *InMemoryStore) List() []*core.AgentCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards := make([]*core.AgentCard, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, c)
	}
	return cards
}

// Get returns the card for id, or (nil, false) if absent.
func (s *InMemoryStore) Get(id string) (*core.AgentCard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	return c, ok
}

// Replace swaps the directory contents atomically. The new map is fully
// built before the lock is taken; concurrent readers see either the old or
// the new generation, never a mix.
func (s *InMemoryStore) Replace(cards []*core.AgentCard) {
	next := make(map[string]*core.AgentCard, len(cards))
	for _, c := range cards {
		next[c.ID] = c
	}
	s.mu.Lock()
	s.cards = next
	s.mu.Unlock()
}
