package services

import (
	"context"
	"errors"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

const bookingNotFoundMessage = "Booking ID not found. Please check and try again."

type TimelineStep struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type LookupResult struct {
	Found       bool            `json:"found"`
	Message     string          `json:"message,omitempty"`
	Booking     *models.Booking `json:"booking,omitempty"`
	Cancellable bool            `json:"cancellable"`
	Timeline    []TimelineStep  `json:"timeline,omitempty"`
	Recent      []string        `json:"recent"`
}

// TrackingService answers "where is my booking" for customers holding a booking id.
type TrackingService struct {
	store    repository.Store
	bookings *BookingService
	recent   RecentStore
	log      logrus.FieldLogger
}

func NewTrackingService(store repository.Store, bookings *BookingService, recent RecentStore, log logrus.FieldLogger) *TrackingService {
	return &TrackingService{store: store, bookings: bookings, recent: recent, log: log}
}

// Lookup finds a booking by id. An unknown id is a normal answer, not an error.
func (s *TrackingService) Lookup(ctx context.Context, deviceID, rawID string) (*LookupResult, error) {
	id := models.NormalizeBookingID(rawID)
	if id == "" {
		return nil, &models.ValidationError{Field: "id", Message: "Please enter a booking ID."}
	}

	booking, err := s.store.GetBooking(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		recent, err := s.Recent(ctx, deviceID)
		if err != nil {
			s.log.WithError(err).WithField("device", deviceID).Warn("failed to read tracking history")
			recent = []string{}
		}
		return &LookupResult{Found: false, Message: bookingNotFoundMessage, Recent: recent}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &LookupResult{
		Found:       true,
		Booking:     booking,
		Cancellable: booking.Status.Cancellable(),
		Timeline:    Timeline(booking.Status),
	}
	result.Recent = s.remember(ctx, deviceID, id)
	return result, nil
}

// Cancel lets the customer withdraw a pending or confirmed booking.
func (s *TrackingService) Cancel(ctx context.Context, rawID string) (*models.Booking, error) {
	return s.bookings.Transition(ctx, rawID, models.BookingStatusCancelled)
}

func (s *TrackingService) Recent(ctx context.Context, deviceID string) ([]string, error) {
	if deviceID == "" {
		return []string{}, nil
	}
	return s.recent.List(ctx, deviceID)
}

func (s *TrackingService) ClearRecent(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return s.recent.Clear(ctx, deviceID)
}

// remember records the lookup; history is a convenience and never fails the lookup.
func (s *TrackingService) remember(ctx context.Context, deviceID, id string) []string {
	if deviceID == "" {
		return []string{}
	}
	list, err := s.recent.Push(ctx, deviceID, id)
	if err != nil {
		s.log.WithError(err).WithField("device", deviceID).Warn("failed to record tracking history")
		return []string{}
	}
	return list
}

// Timeline is the progress strip shown for a booking that is not cancelled.
func Timeline(status models.BookingStatus) []TimelineStep {
	if status == models.BookingStatusCancelled {
		return nil
	}
	received := status == models.BookingStatusPending || status == models.BookingStatusConfirmed || status == models.BookingStatusCompleted
	confirmed := status == models.BookingStatusConfirmed || status == models.BookingStatusCompleted
	completed := status == models.BookingStatusCompleted
	return []TimelineStep{
		{Label: "Booking Received", Done: received},
		{Label: "Asset Confirmed", Done: confirmed},
		// no status records the pickup itself
		{Label: "Trip Started", Done: false},
		{Label: "Journey Complete", Done: completed},
	}
}
