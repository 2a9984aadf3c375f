package store

import (
	"context"
	"fmt"
	"sync"

	id "kycdid/pkg/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	regs map[id.DID]Registration
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{regs: make(map[id.DID]Registration)}
}

func (s *InMemoryStore) Save(_ context.Context, reg *Registration) error {
	if reg == nil || reg.DID == "" {
		return fmt.Errorf("registration with a did is required")
	}
	cp := *reg
	cp.CredentialTypes = append([]string(nil), reg.CredentialTypes...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg.DID] = cp
	return nil
}

func (s *InMemoryStore) FindByDID(_ context.Context, did id.DID) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regs[did]
	if !ok {
		return nil, ErrNotFound
	}
	return &reg, nil
}

var _ Store = (*InMemoryStore)(nil)
