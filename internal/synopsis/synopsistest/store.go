// Package synopsistest provides an in-memory Loader/Writer for exercising
// catalog bootstrap paths in tests without a real storage engine.
package synopsistest

import (
	"context"
	"sync"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/synopsis"
)

// Store is an in-memory synopsis.Loader and synopsis.Writer, safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[evtype.UUID]*synopsis.PartitionSynopsis
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[evtype.UUID]*synopsis.PartitionSynopsis)}
}

// Write implements synopsis.Writer.
func (s *Store) Write(_ context.Context, id evtype.UUID, syn *synopsis.PartitionSynopsis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = syn
	return nil
}

// Load implements synopsis.Loader.
func (s *Store) Load(_ context.Context, id evtype.UUID) (*synopsis.PartitionSynopsis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	syn, ok := s.data[id]
	if !ok {
		return nil, evcaterr.New(evcaterr.LookupError, "partition synopsis not found", "uuid", id.String())
	}
	return syn, nil
}
