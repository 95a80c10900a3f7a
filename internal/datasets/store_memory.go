package datasets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store. Entries expire after
// ttl; when maxEntries is reached the oldest entry is evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	datasets   map[string]*Dataset
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates a new in-memory dataset store. A zero ttl or
// maxEntries disables that bound.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		datasets:   make(map[string]*Dataset),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Create stores a new dataset
func (s *MemoryStore) Create(ds *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, ds.ID)
	}
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = s.now()
	}

	s.removeExpiredLocked()
	if s.maxEntries > 0 {
		for len(s.datasets) >= s.maxEntries {
			s.evictOldestLocked()
		}
	}

	s.datasets[ds.ID] = ds
	return nil
}

// Get retrieves a dataset by ID
func (s *MemoryStore) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, exists := s.datasets[id]
	if !exists || s.expired(ds) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// Return a copy to prevent external modification
	dsCopy := *ds
	return &dsCopy, nil
}

// Delete removes a dataset from the store
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.datasets, id)
	return nil
}

// Count returns the number of live datasets
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, ds := range s.datasets {
		if !s.expired(ds) {
			n++
		}
	}
	return n
}

// CleanupExpired removes expired datasets and returns how many were removed
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeExpiredLocked()
}

// RunCleanup calls CleanupExpired every interval until ctx is done
func (s *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.CleanupExpired(); n > 0 && logger != nil {
				logger.Info("Expired datasets removed", slog.Int("count", n))
			}
		}
	}
}

func (s *MemoryStore) expired(ds *Dataset) bool {
	return s.ttl > 0 && s.now().Sub(ds.CreatedAt) >= s.ttl
}

func (s *MemoryStore) removeExpiredLocked() int {
	deleted := 0
	for id, ds := range s.datasets {
		if s.expired(ds) {
			delete(s.datasets, id)
			deleted++
		}
	}
	return deleted
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, ds := range s.datasets {
		if oldestID == "" || ds.CreatedAt.Before(oldest) {
			oldestID, oldest = id, ds.CreatedAt
		}
	}
	delete(s.datasets, oldestID)
}
