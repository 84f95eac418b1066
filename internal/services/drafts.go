package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
)

var ErrDraftNotFound = errors.New("booking draft not found or expired")

// DraftStore keeps in-progress booking wizards between requests.
type DraftStore interface {
	Get(ctx context.Context, id string) (*models.BookingDraft, error)
	Save(ctx context.Context, draft *models.BookingDraft) error
	Delete(ctx context.Context, id string) error
}

type memoryDraft struct {
	draft     models.BookingDraft
	expiresAt time.Time
}

type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]memoryDraft
}

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{ttl: ttl, now: time.Now, drafts: make(map[string]memoryDraft)}
}

func (s *MemoryDraftStore) Get(ctx context.Context, id string) (*models.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.now().After(d.expiresAt) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	draft := d.draft
	return &draft, nil
}

func (s *MemoryDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = memoryDraft{draft: *draft, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
