package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracking(f *fixture) *TrackingService {
	return NewTrackingService(f.store, f.bookings, NewMemoryRecentStore(), logger.Discard())
}

func TestLookupFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tracking := newTracking(f)
	booking := f.book(t, "v1")

	result, err := tracking.Lookup(ctx, "device-1", " "+booking.ID+" ")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Cancellable)
	assert.Equal(t, booking.ID, result.Booking.ID)
	assert.Equal(t, []string{booking.ID}, result.Recent)
	require.Len(t, result.Timeline, 4)
	assert.True(t, result.Timeline[0].Done)
	assert.False(t, result.Timeline[1].Done)
}

func TestLookupNotFound(t *testing.T) {
	f := newFixture(t)
	tracking := newTracking(f)

	result, err := tracking.Lookup(context.Background(), "device-1", "BK-NONE-1")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, "Booking ID not found. Please check and try again.", result.Message)
	assert.Empty(t, result.Recent)
}

// unreachableRecentStore fails every call, like a redis that went away.
type unreachableRecentStore struct{}

var errRecentDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (unreachableRecentStore) Push(ctx context.Context, deviceID, bookingID string) ([]string, error) {
	return nil, errRecentDown
}

func (unreachableRecentStore) List(ctx context.Context, deviceID string) ([]string, error) {
	return nil, errRecentDown
}

func (unreachableRecentStore) Clear(ctx context.Context, deviceID string) error {
	return errRecentDown
}

func TestLookupNotFoundWithHistoryDown(t *testing.T) {
	f := newFixture(t)
	log, hook := test.NewNullLogger()
	tracking := NewTrackingService(f.store, f.bookings, unreachableRecentStore{}, log)

	result, err := tracking.Lookup(context.Background(), "device-1", "BK-NONE-1")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.NotNil(t, result.Recent)
	assert.Empty(t, result.Recent)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, errRecentDown, entry.Data[logrus.ErrorKey])
}

func TestLookupEmptyID(t *testing.T) {
	f := newFixture(t)
	_, err := newTracking(f).Lookup(context.Background(), "device-1", "   ")

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRecentLookupsAreBoundedAndPerDevice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tracking := newTracking(f)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, f.book(t, "v6").ID)
		_, err := f.bookings.Transition(ctx, ids[i], models.BookingStatusCancelled)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		ids = append(ids, f.book(t, "v3").ID)
		_, err := f.bookings.Transition(ctx, ids[len(ids)-1], models.BookingStatusCancelled)
		require.NoError(t, err)
	}

	for _, id := range ids {
		_, err := tracking.Lookup(ctx, "device-1", id)
		require.NoError(t, err)
	}
	_, err := tracking.Lookup(ctx, "device-1", ids[2])
	require.NoError(t, err)

	recent, err := tracking.Recent(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[5], ids[4], ids[3], ids[1]}, recent)

	other, err := tracking.Recent(ctx, "device-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, tracking.ClearRecent(ctx, "device-1"))
	recent, err = tracking.Recent(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestCancelFromTracking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tracking := newTracking(f)
	booking := f.book(t, "v1")

	cancelled, err := tracking.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, models.VehicleStatusAvailable, f.vehicleStatus(t, "v1"))

	result, err := tracking.Lookup(ctx, "device-1", booking.ID)
	require.NoError(t, err)
	assert.False(t, result.Cancellable)
	assert.Nil(t, result.Timeline)

	_, err = tracking.Cancel(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
