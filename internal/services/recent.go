package services

import (
	"context"
	"sync"

	"github.com/arihantcabs/booking-backend/internal/models"
)

// RecentStore holds the per-device list of recently tracked booking ids.
type RecentStore interface {
	Push(ctx context.Context, deviceID, bookingID string) ([]string, error)
	List(ctx context.Context, deviceID string) ([]string, error)
	Clear(ctx context.Context, deviceID string) error
}

type MemoryRecentStore struct {
	mu    sync.Mutex
	lists map[string][]string
}

func NewMemoryRecentStore() *MemoryRecentStore {
	return &MemoryRecentStore{lists: make(map[string][]string)}
}

func (s *MemoryRecentStore) Push(ctx context.Context, deviceID, bookingID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := models.PushRecent(s.lists[deviceID], bookingID)
	s.lists[deviceID] = list
	return append([]string(nil), list...), nil
}

func (s *MemoryRecentStore) List(ctx context.Context, deviceID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.lists[deviceID]...), nil
}

func (s *MemoryRecentStore) Clear(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, deviceID)
	return nil
}
