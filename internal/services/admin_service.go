package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const vehicleImageFolder = "vehicles"

// ErrVehicleInUse refuses deleting a vehicle that bookings still reference.
var ErrVehicleInUse = errors.New("vehicle has bookings, mark it booked instead of deleting")

// AdminService backs the operator console.
type AdminService struct {
	store     repository.Store
	bookings  *BookingService
	auth      Authenticator
	images    ImageStorage
	events    EventPublisher
	log       logrus.FieldLogger
	jwtSecret string
	tokenTTL  time.Duration
}

type AdminOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAdminService(store repository.Store, bookings *BookingService, auth Authenticator, images ImageStorage, events EventPublisher, log logrus.FieldLogger, opts AdminOptions) *AdminService {
	if events == nil {
		events = Publishers{}
	}
	return &AdminService{
		store:     store,
		bookings:  bookings,
		auth:      auth,
		images:    images,
		events:    events,
		log:       log,
		jwtSecret: opts.JWTSecret,
		tokenTTL:  opts.TokenTTL,
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *AdminService) Login(ctx context.Context, secret string) (*LoginResult, error) {
	if err := s.auth.Authenticate(ctx, secret); err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := utils.GenerateAdminToken(s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue admin token: %w", err)
	}
	s.log.Info("admin logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// ChangeSecret replaces the shared secret after re-checking the current one.
func (s *AdminService) ChangeSecret(ctx context.Context, current, next string) error {
	if err := s.auth.Authenticate(ctx, current); err != nil {
		return err
	}
	hashed, err := HashSecret(next)
	if err != nil {
		return err
	}
	if err := s.store.SetConfig(ctx, models.AdminPasswordKey, hashed); err != nil {
		return fmt.Errorf("store admin secret: %w", err)
	}
	s.log.Info("admin secret changed")
	return nil
}

type DashboardStats struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	AvailableVehicles int `json:"availableVehicles"`
	BookedVehicles    int `json:"bookedVehicles"`
	HiddenReviews     int `json:"hiddenReviews"`
}

type Dashboard struct {
	Bookings []models.Booking `json:"bookings"`
	Vehicles []models.Vehicle `json:"vehicles"`
	Reviews  []models.Review  `json:"reviews"`
	Stats    DashboardStats   `json:"stats"`
}

// Dashboard loads the three console tabs concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Bookings, err = s.store.ListBookings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Vehicles, err = s.store.ListVehicles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Reviews, err = s.store.ListReviews(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Stats.TotalBookings = len(d.Bookings)
	for _, b := range d.Bookings {
		switch b.Status {
		case models.BookingStatusPending:
			d.Stats.PendingBookings++
		case models.BookingStatusConfirmed:
			d.Stats.ConfirmedBookings++
		}
	}
	for _, v := range d.Vehicles {
		if v.Status == models.VehicleStatusAvailable {
			d.Stats.AvailableVehicles++
		} else {
			d.Stats.BookedVehicles++
		}
	}
	for _, r := range d.Reviews {
		if !r.IsVisible {
			d.Stats.HiddenReviews++
		}
	}
	return &d, nil
}

func (s *AdminService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *AdminService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.store.ListVehicles(ctx)
}

func (s *AdminService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx, false)
}

func (s *AdminService) TransitionBooking(ctx context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	return s.bookings.Transition(ctx, id, to)
}

// SetVehicleStatus forces a vehicle's availability regardless of its bookings.
func (s *AdminService) SetVehicleStatus(ctx context.Context, id string, status models.VehicleStatus) (*models.Vehicle, error) {
	if !status.Valid() {
		return nil, &models.ValidationError{Field: "status", Message: "Status must be available or booked."}
	}
	if err := s.store.SetVehicleStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"vehicle": id, "status": status}).Info("vehicle status overridden")
	s.events.Publish(Event{Type: EventVehicleStatusChanged, Data: VehicleStatusChange{VehicleID: id, Status: status}})
	return s.store.GetVehicle(ctx, id)
}

func (s *AdminService) ToggleVehicleStatus(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetVehicleStatus(ctx, id, vehicle.Status.Toggled())
}

// UpsertVehicle creates or replaces a fleet entry. A new vehicle starts
// available; an existing one keeps its status unless the request names one.
func (s *AdminService) UpsertVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	vehicle.ID = strings.TrimSpace(vehicle.ID)
	vehicle.Name = strings.TrimSpace(vehicle.Name)
	if err := validateVehicle(vehicle); err != nil {
		return nil, err
	}
	if err := s.store.UpsertVehicle(ctx, &vehicle); err != nil {
		return nil, err
	}
	saved, err := s.store.GetVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(Event{Type: EventVehicleUpdated, Data: saved})
	return saved, nil
}

func validateVehicle(v models.Vehicle) error {
	switch {
	case v.ID == "":
		return &models.ValidationError{Field: "id", Message: "Vehicle ID is required."}
	case v.Name == "":
		return &models.ValidationError{Field: "name", Message: "Vehicle name is required."}
	case v.Seats < 1:
		return &models.ValidationError{Field: "seats", Message: "Seats must be at least 1."}
	case v.PricePerKm < 0:
		return &models.ValidationError{Field: "pricePerKm", Message: "Price per km cannot be negative."}
	case v.Status != "" && !v.Status.Valid():
		return &models.ValidationError{Field: "status", Message: "Status must be available or booked."}
	}
	return nil
}

func (s *AdminService) DeleteVehicle(ctx context.Context, id string) error {
	count, err := s.store.CountBookingsForVehicle(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrVehicleInUse
	}
	if err := s.store.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.log.WithField("vehicle", id).Info("vehicle deleted")
	s.events.Publish(Event{Type: EventVehicleDeleted, Data: map[string]string{"vehicleId": id}})
	return nil
}

// UploadVehicleImage stores the picture and points the vehicle at it. Only
// the image column is written so a booking made during the upload stands.
func (s *AdminService) UploadVehicleImage(ctx context.Context, id string, file *multipart.FileHeader) (*models.Vehicle, error) {
	if _, err := s.store.GetVehicle(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, file, vehicleImageFolder)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetVehicleImage(ctx, id, url); err != nil {
		return nil, err
	}
	vehicle, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(Event{Type: EventVehicleUpdated, Data: vehicle})
	return vehicle, nil
}

func (s *AdminService) SetReviewVisibility(ctx context.Context, id string, visible bool) error {
	if err := s.store.SetReviewVisibility(ctx, id, visible); err != nil {
		return err
	}
	s.events.Publish(Event{Type: EventReviewUpdated, Data: map[string]interface{}{"reviewId": id, "isVisible": visible}})
	return nil
}

func (s *AdminService) DeleteReview(ctx context.Context, id string) error {
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.events.Publish(Event{Type: EventReviewUpdated, Data: map[string]interface{}{"reviewId": id, "deleted": true}})
	return nil
}
