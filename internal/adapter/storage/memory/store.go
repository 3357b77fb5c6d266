// Package memory is a process-local implementation of the storage ports.
// It mirrors the Postgres semantics the services rely on: per-account row
// locks held for the life of a transaction, writes visible only after
// commit, and ledger ids drawn from a sequence that is never rolled back.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every table. Repositories are thin views over it.
type Store struct {
	mu          sync.RWMutex
	accounts    map[uuid.UUID]*accountRow
	byEmail     map[string]uuid.UUID
	txns        []txnRow
	conversions []convRow
	investments []invRow
	seq         int64

	lockMu   sync.Mutex
	rowLocks map[uuid.UUID]chan struct{}

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*accountRow),
		byEmail:  make(map[string]uuid.UUID),
		rowLocks: make(map[uuid.UUID]chan struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// nextID draws from the shared ledger sequence. Caller holds s.mu.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// rowLock returns the lock channel for an account, creating it lazily.
func (s *Store) rowLock(id uuid.UUID) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.rowLocks[id] = l
	}
	return l
}

// HealthCheck implements ports.HealthChecker for the memory store.
type HealthCheck struct {
	store *Store
}

// NewHealthCheck creates a memory store health checker.
func NewHealthCheck(store *Store) *HealthCheck {
	return &HealthCheck{store: store}
}

// Ping always succeeds while the process is alive.
func (h *HealthCheck) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "memory"
}
