package out

import (
	"context"
	"sync"

	"pacekeeper/internal/modules/deadline/domain"
	deadlineout "pacekeeper/internal/modules/deadline/port/out"
)

// MemoryLedgerStore holds the ledger in a process-local arena.
type MemoryLedgerStore struct {
	mu  sync.RWMutex
	log *domain.Log
}

func NewMemoryLedgerStore() deadlineout.LedgerStore {
	return &MemoryLedgerStore{log: domain.NewLog()}
}

func (s *MemoryLedgerStore) AppendProgress(_ context.Context, entry domain.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.AppendProgress(entry)
	return nil
}

func (s *MemoryLedgerStore) AppendStatus(_ context.Context, entry domain.StatusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.AppendStatus(entry)
	return nil
}

func (s *MemoryLedgerStore) Progress(_ context.Context, deadlineID string) ([]domain.ProgressEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Progress(deadlineID), nil
}

func (s *MemoryLedgerStore) Statuses(_ context.Context, deadlineID string) ([]domain.StatusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Statuses(deadlineID), nil
}

// Snapshot copies the arena so later appends do not leak into the result.
func (s *MemoryLedgerStore) Snapshot(_ context.Context) (*domain.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.NewLog()
	for _, id := range s.log.DeadlineIDs() {
		for _, e := range s.log.Progress(id) {
			out.AppendProgress(e)
		}
		for _, e := range s.log.Statuses(id) {
			out.AppendStatus(e)
		}
	}
	return out, nil
}
