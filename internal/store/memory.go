package store

import "sync"

// MemoryStore keeps conversation state in process memory. This is the
// default deployment: state is transient by design and losing it on
// restart only means a user mid-flow starts that flow over.
type MemoryStore struct {
	mu           sync.RWMutex
	states       map[string]State
	interactions []InteractionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) GetState(sender string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[sender]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) PutState(sender string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sender] = st
	return nil
}

func (s *MemoryStore) DeleteState(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sender)
	return nil
}

func (s *MemoryStore) LogInteraction(rec InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, rec)
	return nil
}

// Interactions returns a copy of the audit log, newest last.
func (s *MemoryStore) Interactions() []InteractionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InteractionRecord, len(s.interactions))
	copy(out, s.interactions)
	return out
}

func (s *MemoryStore) Close() error { return nil }
