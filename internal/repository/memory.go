package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/arihantcabs/booking-backend/internal/models"
)

// MemoryStore keeps every collection in process memory. It backs local
// demos (STORE_DRIVER=memory) and the service tests.
type MemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	vehicles map[string]models.Vehicle
	bookings map[string]models.Booking
	reviews  map[string]models.Review
	config   map[string]string

	// failNext lets tests inject a gateway error for a named operation.
	failNext map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: make(map[string]models.Vehicle),
		bookings: make(map[string]models.Booking),
		reviews:  make(map[string]models.Review),
		config:   make(map[string]string),
		failNext: make(map[string]error),
	}
}

// FailNext makes the next call of op return err.
func (s *MemoryStore) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = err
}

func (s *MemoryStore) injected(op string) error {
	if err, ok := s.failNext[op]; ok {
		delete(s.failNext, op)
		return err
	}
	return nil
}

func (s *MemoryStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListVehicles"); err != nil {
		return nil, err
	}

	out := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemoryStore) CountVehicles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.vehicles)), nil
}

func (s *MemoryStore) SeedVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	return s.seedVehicles(nil, vehicles)
}

func (s *MemoryStore) seedVehicles(log *undoLog, vehicles []models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vehicles {
		if _, exists := s.vehicles[v.ID]; !exists {
			remember(log, s.vehicles, v.ID)
			s.vehicles[v.ID] = v
		}
	}
	return nil
}

func (s *MemoryStore) UpsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return s.upsertVehicle(nil, vehicle)
}

func (s *MemoryStore) upsertVehicle(log *undoLog, vehicle *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *vehicle
	existing, ok := s.vehicles[v.ID]
	if v.Status == "" {
		v.Status = models.VehicleStatusAvailable
		if ok {
			v.Status = existing.Status
		}
	}
	if v.ImageURL == "" && ok {
		v.ImageURL = existing.ImageURL
	}
	remember(log, s.vehicles, v.ID)
	s.vehicles[v.ID] = v
	vehicle.Status = v.Status
	vehicle.ImageURL = v.ImageURL
	return nil
}

func (s *MemoryStore) SetVehicleImage(ctx context.Context, id, url string) error {
	return s.setVehicleImage(nil, id, url)
}

func (s *MemoryStore) setVehicleImage(log *undoLog, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	remember(log, s.vehicles, id)
	v.ImageURL = url
	s.vehicles[id] = v
	return nil
}

func (s *MemoryStore) DeleteVehicle(ctx context.Context, id string) error {
	return s.deleteVehicle(nil, id)
}

func (s *MemoryStore) deleteVehicle(log *undoLog, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[id]; !ok {
		return ErrNotFound
	}
	remember(log, s.vehicles, id)
	delete(s.vehicles, id)
	return nil
}

func (s *MemoryStore) SetVehicleStatus(ctx context.Context, id string, status models.VehicleStatus) error {
	return s.setVehicleStatus(nil, id, status)
}

func (s *MemoryStore) setVehicleStatus(log *undoLog, id string, status models.VehicleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("SetVehicleStatus"); err != nil {
		return err
	}
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	remember(log, s.vehicles, id)
	v.Status = status
	s.vehicles[id] = v
	return nil
}

func (s *MemoryStore) AllocateVehicle(ctx context.Context, id string) error {
	return s.allocateVehicle(nil, id)
}

func (s *MemoryStore) allocateVehicle(log *undoLog, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AllocateVehicle"); err != nil {
		return err
	}
	v, ok := s.vehicles[id]
	if !ok || v.Status != models.VehicleStatusAvailable {
		return ErrVehicleUnavailable
	}
	remember(log, s.vehicles, id)
	v.Status = models.VehicleStatusBooked
	s.vehicles[id] = v
	return nil
}

func (s *MemoryStore) ReleaseVehicle(ctx context.Context, id string) error {
	return s.releaseVehicle(nil, id)
}

func (s *MemoryStore) releaseVehicle(log *undoLog, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ReleaseVehicle"); err != nil {
		return err
	}
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	remember(log, s.vehicles, id)
	v.Status = models.VehicleStatusAvailable
	s.vehicles[id] = v
	return nil
}

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.createBooking(nil, booking)
}

func (s *MemoryStore) createBooking(log *undoLog, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateBooking"); err != nil {
		return err
	}
	if _, exists := s.bookings[booking.ID]; exists {
		return ErrDuplicateKey
	}
	b := *booking
	b.Vehicle = nil
	remember(log, s.bookings, b.ID)
	s.bookings[b.ID] = b
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.join(&b)
	return &b, nil
}

func (s *MemoryStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		s.join(&b)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CountBookingsForVehicle(ctx context.Context, vehicleID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, b := range s.bookings {
		if b.VehicleID == vehicleID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) join(b *models.Booking) {
	if v, ok := s.vehicles[b.VehicleID]; ok {
		b.Vehicle = &v
	}
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	return s.updateBookingStatus(nil, id, from, to)
}

func (s *MemoryStore) updateBookingStatus(log *undoLog, id string, from, to models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateBookingStatus"); err != nil {
		return err
	}
	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrStatusConflict
	}
	remember(log, s.bookings, id)
	b.Status = to
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) ListReviews(ctx context.Context, visibleOnly bool) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if visibleOnly && !r.IsVisible {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateReview(ctx context.Context, review *models.Review) error {
	return s.createReview(nil, review)
}

func (s *MemoryStore) createReview(log *undoLog, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remember(log, s.reviews, review.ID)
	s.reviews[review.ID] = *review
	return nil
}

func (s *MemoryStore) SetReviewVisibility(ctx context.Context, id string, visible bool) error {
	return s.setReviewVisibility(nil, id, visible)
}

func (s *MemoryStore) setReviewVisibility(log *undoLog, id string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return ErrNotFound
	}
	remember(log, s.reviews, id)
	r.IsVisible = visible
	s.reviews[id] = r
	return nil
}

func (s *MemoryStore) DeleteReview(ctx context.Context, id string) error {
	return s.deleteReview(nil, id)
}

func (s *MemoryStore) deleteReview(log *undoLog, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return ErrNotFound
	}
	remember(log, s.reviews, id)
	delete(s.reviews, id)
	return nil
}

func (s *MemoryStore) GetConfig(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetConfig"); err != nil {
		return "", err
	}
	v, ok := s.config[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) SetConfig(ctx context.Context, key, value string) error {
	return s.setConfig(nil, key, value)
}

func (s *MemoryStore) setConfig(log *undoLog, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	remember(log, s.config, key)
	s.config[key] = value
	return nil
}

// WithinTx serializes transactions. When fn fails only the keys it wrote
// are put back, so concurrent writers outside the transaction keep theirs.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memoryTx{MemoryStore: s}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(tx.log) - 1; i >= 0; i-- {
			tx.log[i]()
		}
		return err
	}
	return nil
}

// undoLog holds one restore step per key written inside a transaction.
// Steps run with s.mu held.
type undoLog []func()

func remember[K comparable, V any](log *undoLog, m map[K]V, key K) {
	if log == nil {
		return
	}
	prev, existed := m[key]
	*log = append(*log, func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

// memoryTx routes every write through the undo log. Reads fall through to
// the embedded store.
type memoryTx struct {
	*MemoryStore
	log undoLog
}

var _ Store = (*memoryTx)(nil)

func (tx *memoryTx) SeedVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	return tx.seedVehicles(&tx.log, vehicles)
}

func (tx *memoryTx) UpsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return tx.upsertVehicle(&tx.log, vehicle)
}

func (tx *memoryTx) SetVehicleImage(ctx context.Context, id, url string) error {
	return tx.setVehicleImage(&tx.log, id, url)
}

func (tx *memoryTx) DeleteVehicle(ctx context.Context, id string) error {
	return tx.deleteVehicle(&tx.log, id)
}

func (tx *memoryTx) SetVehicleStatus(ctx context.Context, id string, status models.VehicleStatus) error {
	return tx.setVehicleStatus(&tx.log, id, status)
}

func (tx *memoryTx) AllocateVehicle(ctx context.Context, id string) error {
	return tx.allocateVehicle(&tx.log, id)
}

func (tx *memoryTx) ReleaseVehicle(ctx context.Context, id string) error {
	return tx.releaseVehicle(&tx.log, id)
}

func (tx *memoryTx) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return tx.createBooking(&tx.log, booking)
}

func (tx *memoryTx) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	return tx.updateBookingStatus(&tx.log, id, from, to)
}

func (tx *memoryTx) CreateReview(ctx context.Context, review *models.Review) error {
	return tx.createReview(&tx.log, review)
}

func (tx *memoryTx) SetReviewVisibility(ctx context.Context, id string, visible bool) error {
	return tx.setReviewVisibility(&tx.log, id, visible)
}

func (tx *memoryTx) DeleteReview(ctx context.Context, id string) error {
	return tx.deleteReview(&tx.log, id)
}

func (tx *memoryTx) SetConfig(ctx context.Context, key, value string) error {
	return tx.setConfig(&tx.log, key, value)
}

// WithinTx joins the enclosing transaction.
func (tx *memoryTx) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(tx)
}
