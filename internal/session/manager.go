package session

import (
	"sync"
	"time"
)

// Manager serializes message processing per sender. The platform delivers
// webhooks concurrently and in no particular order, so without this two
// messages from the same sender could race on flow state.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*senderLock
}

type senderLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

func NewManager() *Manager {
	return &Manager{
		locks: make(map[string]*senderLock),
	}
}

// WithLock runs fn while holding the per-sender mutex. Messages from the
// same sender are serialized; different senders run in parallel.
func (m *Manager) WithLock(sender string, fn func()) {
	m.mu.Lock()
	sl, ok := m.locks[sender]
	if !ok {
		sl = &senderLock{}
		m.locks[sender] = sl
	}
	m.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.lastUsed = time.Now()
	fn()
}

// Cleanup removes locks not used within maxAge to prevent memory leaks.
func (m *Manager) Cleanup(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for sender, sl := range m.locks {
		if now.Sub(sl.lastUsed) > maxAge {
			delete(m.locks, sender)
		}
	}
}
