package repository

import (
	"context"
	"errors"

	"github.com/arihantcabs/booking-backend/internal/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrDuplicateKey       = errors.New("record already exists")
	// ErrStatusConflict means a conditional status update found the row in a
	// different state than the caller expected.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

// Store is the gateway to the vehicles, bookings, reviews and admin_config
// collections.
type Store interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	CountVehicles(ctx context.Context) (int64, error)
	SeedVehicles(ctx context.Context, vehicles []models.Vehicle) error
	// UpsertVehicle inserts or updates a vehicle. An empty Status or ImageURL
	// leaves the stored value alone; a new vehicle starts available.
	UpsertVehicle(ctx context.Context, vehicle *models.Vehicle) error
	SetVehicleImage(ctx context.Context, id, url string) error
	DeleteVehicle(ctx context.Context, id string) error
	SetVehicleStatus(ctx context.Context, id string, status models.VehicleStatus) error
	// AllocateVehicle flips an available vehicle to booked in one conditional
	// update and fails with ErrVehicleUnavailable otherwise.
	AllocateVehicle(ctx context.Context, id string) error
	ReleaseVehicle(ctx context.Context, id string) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CountBookingsForVehicle(ctx context.Context, vehicleID string) (int64, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error

	ListReviews(ctx context.Context, visibleOnly bool) ([]models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	SetReviewVisibility(ctx context.Context, id string, visible bool) error
	DeleteReview(ctx context.Context, id string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// WithinTx runs fn against a Store whose writes commit together or not at all.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
