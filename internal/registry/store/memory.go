package store

import (
	"context"
	"sync"

	"tokenhome/internal/registry/models"
	id "tokenhome/pkg/domain"
	"tokenhome/pkg/platform/sentinel"
)

// InMemory implements Ledger with a single mutex covering every
// read-modify-write sequence, so the live-count invariant is never observably
// violated. Suitable for tests and single-node deployments; use Postgres for
// anything durable.
type InMemory struct {
	mu     sync.Mutex
	tokens map[id.TokenID]id.Address
	state  models.State
}

// NewInMemory creates an empty in-memory ledger with the initial state
// (next id 1, default ".json" extension).
func NewInMemory() *InMemory {
	return &InMemory{
		tokens: make(map[id.TokenID]id.Address),
		state:  models.NewState(),
	}
}

func (s *InMemory) MintNext(ctx context.Context, holder id.Address, accept func(id.TokenID) error) (id.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocated := s.state.NextID
	if accept != nil {
		if err := accept(allocated); err != nil {
			return 0, err
		}
	}

	s.tokens[allocated] = holder
	s.state.NextID++
	s.state.LiveCount++
	return allocated, nil
}

func (s *InMemory) Burn(ctx context.Context, tokenID id.TokenID, allow func(holder id.Address) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	holder, ok := s.tokens[tokenID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if allow != nil {
		if err := allow(holder); err != nil {
			return err
		}
	}

	delete(s.tokens, tokenID)
	s.state.LiveCount--
	return nil
}

func (s *InMemory) Holder(ctx context.Context, tokenID id.TokenID) (id.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holder, ok := s.tokens[tokenID]
	if !ok {
		return id.Address{}, sentinel.ErrNotFound
	}
	return holder, nil
}

func (s *InMemory) State(ctx context.Context) (models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *InMemory) SetBaseURI(ctx context.Context, uri string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.state.BaseURI
	s.state.BaseURI = uri
	return old, nil
}

func (s *InMemory) SetBaseExtension(ctx context.Context, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.state.BaseExtension
	s.state.BaseExtension = ext
	return old, nil
}
