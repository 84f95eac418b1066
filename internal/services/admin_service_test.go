package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/pkg/logger"
	"github.com/arihantcabs/booking-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func newAdmin(t *testing.T, f *fixture) *AdminService {
	t.Helper()
	require.NoError(t, EnsureAdminSecret(context.Background(), f.store, "operator-secret"))
	auth := NewSecretAuthenticator(f.store, "", logger.Discard())
	images := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	return NewAdminService(f.store, f.bookings, auth, images, f.events, logger.Discard(), AdminOptions{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)

	result, err := admin.Login(ctx, "operator-secret")
	require.NoError(t, err)
	_, err = utils.ValidateAdminToken(testJWTSecret, result.Token)
	assert.NoError(t, err)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	_, err = admin.Login(ctx, "guess")
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestAdminChangeSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)

	assert.ErrorIs(t, admin.ChangeSecret(ctx, "wrong", "new-operator-secret"), ErrInvalidSecret)
	require.NoError(t, admin.ChangeSecret(ctx, "operator-secret", "new-operator-secret"))

	_, err := admin.Login(ctx, "operator-secret")
	assert.ErrorIs(t, err, ErrInvalidSecret)
	_, err = admin.Login(ctx, "new-operator-secret")
	assert.NoError(t, err)
}

func TestAdminDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)
	booking := f.book(t, "v1")
	f.book(t, "v3")
	_, err := admin.TransitionBooking(ctx, booking.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)

	d, err := admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Stats.TotalBookings)
	assert.Equal(t, 1, d.Stats.PendingBookings)
	assert.Equal(t, 1, d.Stats.ConfirmedBookings)
	assert.Equal(t, 1, d.Stats.AvailableVehicles)
	assert.Equal(t, 3, d.Stats.BookedVehicles)
}

func TestAdminDashboardStoreError(t *testing.T) {
	f := newFixture(t)
	admin := newAdmin(t, f)
	boom := errors.New("db down")
	f.store.FailNext("ListVehicles", boom)

	_, err := admin.Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestAdminVehicleOverrides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)

	v, err := admin.ToggleVehicleStatus(ctx, "v4")
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusAvailable, v.Status)

	v, err = admin.SetVehicleStatus(ctx, "v4", models.VehicleStatusBooked)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusBooked, v.Status)

	_, err = admin.SetVehicleStatus(ctx, "v4", "maintenance")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = admin.ToggleVehicleStatus(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Contains(t, f.events.types(), EventVehicleStatusChanged)
}

func TestAdminUpsertAndDeleteVehicle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)

	created, err := admin.UpsertVehicle(ctx, models.Vehicle{ID: "v7", Name: " Bolero ", Seats: 7, PricePerKm: 14})
	require.NoError(t, err)
	assert.Equal(t, "Bolero", created.Name)
	assert.Equal(t, models.VehicleStatusAvailable, created.Status)

	// editing a booked vehicle keeps it booked
	updated, err := admin.UpsertVehicle(ctx, models.Vehicle{ID: "v4", Name: "Innova Crysta", Seats: 7, PricePerKm: 16})
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusBooked, updated.Status)

	_, err = admin.UpsertVehicle(ctx, models.Vehicle{ID: "v8", Name: "Zero", Seats: 0})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	f.book(t, "v1")
	assert.ErrorIs(t, admin.DeleteVehicle(ctx, "v1"), ErrVehicleInUse)

	require.NoError(t, admin.DeleteVehicle(ctx, "v7"))
	assert.ErrorIs(t, admin.DeleteVehicle(ctx, "v7"), repository.ErrNotFound)
}

// bookingDuringUpload books a vehicle while the upload is in flight.
type bookingDuringUpload struct {
	t         *testing.T
	f         *fixture
	vehicleID string
}

func (u *bookingDuringUpload) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	u.f.book(u.t, u.vehicleID)
	return "https://cdn.example.com/" + folder + "/baleno.jpg", nil
}

func TestAdminUploadVehicleImageKeepsConcurrentBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := NewSecretAuthenticator(f.store, "operator-secret", logger.Discard())
	images := &bookingDuringUpload{t: t, f: f, vehicleID: "v1"}
	admin := NewAdminService(f.store, f.bookings, auth, images, f.events, logger.Discard(), AdminOptions{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	})

	vehicle, err := admin.UploadVehicleImage(ctx, "v1", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/vehicles/baleno.jpg", vehicle.ImageURL)
	assert.Equal(t, models.VehicleStatusBooked, vehicle.Status)
	assert.Equal(t, models.VehicleStatusBooked, f.vehicleStatus(t, "v1"))

	_, err = admin.UploadVehicleImage(ctx, "missing", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminUpsertVehicleKeepsImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)
	require.NoError(t, f.store.SetVehicleImage(ctx, "v3", "/uploads/vehicles/ertiga.jpg"))

	updated, err := admin.UpsertVehicle(ctx, models.Vehicle{ID: "v3", Name: "Ertiga", Seats: 7, PricePerKm: 13})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/vehicles/ertiga.jpg", updated.ImageURL)
	assert.Equal(t, 13.0, updated.PricePerKm)
}

func TestAdminReviewModeration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := newAdmin(t, f)
	reviews := NewReviewService(f.store, f.events, logger.Discard())

	review, err := reviews.Submit(ctx, ReviewRequest{CustomerName: "Ravi", Rating: 5, Comment: "Smooth ride to Deoghar"})
	require.NoError(t, err)

	visible, err := reviews.ListVisible(ctx)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, admin.SetReviewVisibility(ctx, review.ID, true))
	visible, err = reviews.ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	require.NoError(t, admin.DeleteReview(ctx, review.ID))
	all, err := admin.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
