package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTransition    = errors.New("booking status transition not allowed")
	ErrTransitionInProgress = errors.New("another update for this booking is in progress")
)

const bookingIDAttempts = 3

// BookingService runs the booking wizard and the booking lifecycle.
type BookingService struct {
	store    repository.Store
	drafts   DraftStore
	guard    InFlightGuard
	events   EventPublisher
	log      logrus.FieldLogger
	insights models.InsightFunc
	now      func() time.Time
	newID    func() (string, error)
}

func NewBookingService(store repository.Store, drafts DraftStore, guard InFlightGuard, events EventPublisher, log logrus.FieldLogger) *BookingService {
	if events == nil {
		events = Publishers{}
	}
	return &BookingService{
		store:    store,
		drafts:   drafts,
		guard:    guard,
		events:   events,
		log:      log,
		insights: utils.GenerateInsights,
		now:      time.Now,
		newID:    utils.GenerateBookingID,
	}
}

// TripStep is what the customer sees after the trip details are accepted.
type TripStep struct {
	Draft      *models.BookingDraft `json:"draft"`
	Insights   []string             `json:"insights"`
	Candidates []models.Vehicle     `json:"vehicles"`
}

// BookingRequest carries all three wizard steps in one submission.
type BookingRequest struct {
	Trip      models.TripDetails    `json:"trip"`
	VehicleID string                `json:"vehicleId"`
	Contact   models.ContactDetails `json:"contact"`
}

// AvailableVehicles lists the fleet members offered for a party of this size.
func (s *BookingService) AvailableVehicles(ctx context.Context, passengers int) ([]models.Vehicle, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	if passengers < 1 {
		passengers = 1
	}
	return models.FilterCandidates(vehicles, passengers), nil
}

func (s *BookingService) StartDraft(ctx context.Context) (*models.BookingDraft, error) {
	draft := models.NewBookingDraft(uuid.NewString(), s.now())
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

func (s *BookingService) GetDraft(ctx context.Context, id string) (*models.BookingDraft, error) {
	return s.drafts.Get(ctx, id)
}

func (s *BookingService) SubmitTrip(ctx context.Context, draftID string, trip models.TripDetails) (*TripStep, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.SubmitTrip(trip, s.insights); err != nil {
		return nil, err
	}

	candidates, err := s.AvailableVehicles(ctx, draft.Trip.PassengerCount)
	if err != nil {
		return nil, err
	}

	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &TripStep{
		Draft:      draft,
		Insights:   utils.SplitInsights(draft.Insights),
		Candidates: candidates,
	}, nil
}

func (s *BookingService) SelectVehicle(ctx context.Context, draftID, vehicleID string) (*models.BookingDraft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.lookupVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := draft.SelectVehicle(*vehicle); err != nil {
		return nil, err
	}

	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *BookingService) Back(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.Back(); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit confirms the contact step and persists the booking. On failure the
// draft stays on the contact step so the customer can try again.
func (s *BookingService) Submit(ctx context.Context, draftID string, contact models.ContactDetails) (*models.Booking, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.ConfirmContact(contact); err != nil {
		return nil, err
	}

	booking, err := s.persist(ctx, draft)
	if err != nil {
		return nil, err
	}

	draft.MarkSubmitted(booking.ID)
	if err := s.saveDraft(ctx, draft); err != nil {
		s.log.WithError(err).WithField("draft", draftID).Warn("booking saved but draft not updated")
	}
	return booking, nil
}

// CreateBooking runs all wizard steps over a single request.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	draft := models.NewBookingDraft("", s.now())
	if err := draft.SubmitTrip(req.Trip, s.insights); err != nil {
		return nil, err
	}

	vehicle, err := s.lookupVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if err := draft.SelectVehicle(*vehicle); err != nil {
		return nil, err
	}
	if err := draft.ConfirmContact(req.Contact); err != nil {
		return nil, err
	}
	return s.persist(ctx, draft)
}

func (s *BookingService) lookupVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	if vehicleID == "" {
		return nil, &models.ValidationError{Field: "vehicleId", Message: "Please select a vehicle!"}
	}
	vehicle, err := s.store.GetVehicle(ctx, vehicleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &models.ValidationError{Field: "vehicleId", Message: "Please select a vehicle!"}
	}
	return vehicle, err
}

// persist allocates the vehicle and inserts the booking in one transaction.
func (s *BookingService) persist(ctx context.Context, draft *models.BookingDraft) (*models.Booking, error) {
	var booking models.Booking
	for attempt := 1; ; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("generate booking id: %w", err)
		}
		booking = draft.NewBooking(id, s.now().UTC())

		err = s.store.WithinTx(ctx, func(tx repository.Store) error {
			if err := tx.AllocateVehicle(ctx, booking.VehicleID); err != nil {
				return err
			}
			return tx.CreateBooking(ctx, &booking)
		})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateKey) && attempt < bookingIDAttempts {
			continue
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking": booking.ID,
		"vehicle": booking.VehicleID,
	}).Info("booking created")
	s.events.Publish(Event{Type: EventBookingCreated, Data: booking})

	if saved, err := s.store.GetBooking(ctx, booking.ID); err == nil {
		return saved, nil
	}
	return &booking, nil
}

// Transition moves a booking along its lifecycle and frees the vehicle when
// the booking ends. Only one transition per booking runs at a time.
func (s *BookingService) Transition(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	id := models.NormalizeBookingID(bookingID)

	acquired, err := s.guard.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("acquire transition marker: %w", err)
	}
	if !acquired {
		return nil, ErrTransitionInProgress
	}
	defer func() {
		if err := s.guard.Release(context.Background(), id); err != nil {
			s.log.WithError(err).WithField("booking", id).Warn("failed to release transition marker")
		}
	}()

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	from := booking.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	released := false
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateBookingStatus(ctx, id, from, to); err != nil {
			return err
		}
		if !to.ReleasesVehicle() || booking.VehicleID == "" {
			return nil
		}
		err := tx.ReleaseVehicle(ctx, booking.VehicleID)
		if errors.Is(err, repository.ErrNotFound) {
			s.log.WithField("vehicle", booking.VehicleID).Warn("booked vehicle no longer exists, nothing to release")
			return nil
		}
		if err != nil {
			return err
		}
		released = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking": id,
		"from":    from,
		"to":      to,
	}).Info("booking status changed")
	s.events.Publish(Event{Type: EventBookingStatusChanged, Data: BookingStatusChange{
		BookingID: id,
		VehicleID: booking.VehicleID,
		From:      from,
		To:        to,
		Released:  released,
	}})
	if released {
		s.events.Publish(Event{Type: EventVehicleStatusChanged, Data: VehicleStatusChange{
			VehicleID: booking.VehicleID,
			Status:    models.VehicleStatusAvailable,
		}})
	}

	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) saveDraft(ctx context.Context, draft *models.BookingDraft) error {
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
