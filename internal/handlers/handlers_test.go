package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arihantcabs/booking-backend/internal/config"
	"github.com/arihantcabs/booking-backend/internal/database"
	"github.com/arihantcabs/booking-backend/internal/middleware"
	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/arihantcabs/booking-backend/internal/services"
	"github.com/arihantcabs/booking-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret   = "handler-test-jwt"
	testAdminSecret = "operator-secret"
)

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := logger.Discard()

	store := repository.NewMemoryStore()
	database.SeedFleet(ctx, store, log)
	require.NoError(t, services.EnsureAdminSecret(ctx, store, testAdminSecret))

	bookings := services.NewBookingService(store, services.NewMemoryDraftStore(time.Hour), services.NewMemoryInFlightGuard(time.Minute), nil, log)
	tracking := services.NewTrackingService(store, bookings, services.NewMemoryRecentStore(), log)
	reviews := services.NewReviewService(store, nil, log)
	auth := services.NewSecretAuthenticator(store, "", log)
	admin := services.NewAdminService(store, bookings, auth, services.NewLocalStorage(t.TempDir(), "http://localhost:8080"), nil, log, services.AdminOptions{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	})

	r := gin.New()
	r.Use(middleware.RequestID())
	RegisterRoutes(r, Deps{
		Bookings:  bookings,
		Tracking:  tracking,
		Reviews:   reviews,
		Admin:     admin,
		Contact:   &config.ContactConfig{Phone: "+91 7979852978", Location: "Giridih"},
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (s *testServer) adminToken(t *testing.T) map[string]string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/admin/login", gin.H{"secret": testAdminSecret}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	return map[string]string{"Authorization": "Bearer " + login.Token}
}

func (s *testServer) createBooking(t *testing.T, vehicleID string, passengers int) models.Booking {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/bookings", services.BookingRequest{
		Trip: models.TripDetails{
			ServiceType:    models.ServiceTypeWithDriver,
			Pickup:         "Giridih",
			Drop:           "Ranchi Airport",
			Date:           "2026-11-02",
			Time:           "07:00",
			PassengerCount: passengers,
		},
		VehicleID: vehicleID,
		Contact:   models.ContactDetails{Name: "Asha", Phone: "9876543210"},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking models.Booking
	decode(t, w, &booking)
	return booking
}

func TestHealthAndContact(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = s.do(t, http.MethodGet, "/api/contact", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info models.ContactInfo
	decode(t, w, &info)
	assert.Equal(t, "+91 7979852978", info.Phone)
}

func TestListVehicles(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/vehicles?passengers=8", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vehicles []models.Vehicle
	decode(t, w, &vehicles)
	require.NotEmpty(t, vehicles)
	for _, v := range vehicles {
		assert.GreaterOrEqual(t, v.Seats, 8)
	}

	w = s.do(t, http.MethodGet, "/api/vehicles?passengers=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/insights?pickup=Giridih&drop=Ranchi%20Airport&passengers=8", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Insights []string `json:"insights"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Insights, 3)
	assert.Contains(t, body.Insights[0], "large group")
}

func TestDraftWizardOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/booking-drafts", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var draft models.BookingDraft
	decode(t, w, &draft)

	w = s.do(t, http.MethodPut, "/api/booking-drafts/"+draft.ID+"/trip", models.TripDetails{Pickup: "Giridih"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errBody map[string]string
	decode(t, w, &errBody)
	assert.Equal(t, "Please fill the trip details!", errBody["error"])

	w = s.do(t, http.MethodPut, "/api/booking-drafts/"+draft.ID+"/vehicle", gin.H{"vehicleId": "v1"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	trip := models.TripDetails{Pickup: "Giridih", Drop: "Deoghar", Date: "2026-11-02", Time: "06:00", PassengerCount: 2}
	w = s.do(t, http.MethodPut, "/api/booking-drafts/"+draft.ID+"/trip", trip, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var step services.TripStep
	decode(t, w, &step)
	require.NotEmpty(t, step.Candidates)

	w = s.do(t, http.MethodPut, "/api/booking-drafts/"+draft.ID+"/vehicle", gin.H{"vehicleId": step.Candidates[0].ID}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/booking-drafts/"+draft.ID+"/submit", models.ContactDetails{Name: "Asha", Phone: "98765"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking models.Booking
	decode(t, w, &booking)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	w = s.do(t, http.MethodGet, "/api/booking-drafts/unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackingOverHTTP(t *testing.T) {
	s := newTestServer(t)
	booking := s.createBooking(t, "v1", 2)
	device := map[string]string{DeviceIDHeader: "device-1"}

	w := s.do(t, http.MethodGet, "/api/bookings/"+booking.ID, nil, device)
	require.Equal(t, http.StatusOK, w.Code)
	var result services.LookupResult
	decode(t, w, &result)
	assert.True(t, result.Found)
	assert.Equal(t, []string{booking.ID}, result.Recent)

	w = s.do(t, http.MethodGet, "/api/bookings/BK-NONE-1", nil, device)
	require.Equal(t, http.StatusOK, w.Code)
	result = services.LookupResult{}
	decode(t, w, &result)
	assert.False(t, result.Found)
	assert.Equal(t, "Booking ID not found. Please check and try again.", result.Message)

	w = s.do(t, http.MethodPost, "/api/bookings/"+booking.ID+"/cancel", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/bookings/"+booking.ID+"/cancel", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/tracking/recent", nil, device)
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Recent []string `json:"recent"`
	}
	decode(t, w, &recent)
	assert.Equal(t, []string{booking.ID}, recent.Recent)

	w = s.do(t, http.MethodDelete, "/api/tracking/recent", nil, device)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/tracking/recent", nil, device)
	decode(t, w, &recent)
	assert.Empty(t, recent.Recent)
}

func TestBookingVehicleUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.createBooking(t, "v1", 2)

	w := s.do(t, http.MethodPost, "/api/bookings", services.BookingRequest{
		Trip:      models.TripDetails{Pickup: "Giridih", Drop: "Dhanbad", Date: "2026-11-03", Time: "10:00", PassengerCount: 2},
		VehicleID: "v1",
		Contact:   models.ContactDetails{Name: "Ravi", Phone: "9123456780"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/admin/bookings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/bookings", nil, map[string]string{"Authorization": "Bearer nonsense"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/admin/login", gin.H{"secret": "guess"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminBookingTransitions(t *testing.T) {
	s := newTestServer(t)
	auth := s.adminToken(t)
	booking := s.createBooking(t, "v3", 6)

	w := s.do(t, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", gin.H{"status": "confirmed"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", gin.H{"status": "completed"}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	v, err := s.store.GetVehicle(context.Background(), "v3")
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusAvailable, v.Status)

	w = s.do(t, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", gin.H{"status": "cancelled"}, auth)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", gin.H{"status": "started"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/api/admin/bookings/BK-NONE-1/status", gin.H{"status": "confirmed"}, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/bookings", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var bookings []models.Booking
	decode(t, w, &bookings)
	assert.Len(t, bookings, 1)
}

func TestAdminVehicles(t *testing.T) {
	s := newTestServer(t)
	auth := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/admin/vehicles/v1/toggle", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var v models.Vehicle
	decode(t, w, &v)
	assert.Equal(t, models.VehicleStatusBooked, v.Status)

	w = s.do(t, http.MethodPatch, "/api/admin/vehicles/v1/status", gin.H{"status": "available"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/admin/vehicles/v9", gin.H{"name": "Bolero", "seats": 7, "pricePerKm": 14}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodDelete, "/api/admin/vehicles/v9", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/admin/vehicles/v9", nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminVehicleImageUpload(t *testing.T) {
	s := newTestServer(t)
	auth := s.adminToken(t)

	upload := func(content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", "car.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/vehicles/v1/image", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", auth["Authorization"])
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	w := upload(png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v models.Vehicle
	decode(t, w, &v)
	assert.Contains(t, v.ImageURL, "http://localhost:8080/uploads/vehicles/")

	w = upload([]byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	auth := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/reviews", services.ReviewRequest{CustomerName: "Ravi", Rating: 5, Comment: "Lovely trip"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Review models.Review `json:"review"`
	}
	decode(t, w, &created)

	w = s.do(t, http.MethodPost, "/api/reviews", services.ReviewRequest{CustomerName: "Ravi", Rating: 9, Comment: "?"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reviews []models.Review
	w = s.do(t, http.MethodGet, "/api/reviews", nil, nil)
	decode(t, w, &reviews)
	assert.Empty(t, reviews)

	w = s.do(t, http.MethodPatch, "/api/admin/reviews/"+created.Review.ID+"/visibility", gin.H{"isVisible": true}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/reviews", nil, nil)
	decode(t, w, &reviews)
	assert.Len(t, reviews, 1)

	w = s.do(t, http.MethodPatch, "/api/admin/reviews/"+created.Review.ID+"/visibility", gin.H{}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/admin/reviews/"+created.Review.ID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminChangeSecretOverHTTP(t *testing.T) {
	s := newTestServer(t)
	auth := s.adminToken(t)

	w := s.do(t, http.MethodPut, "/api/admin/secret", gin.H{"currentSecret": testAdminSecret, "newSecret": "brand-new-secret"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/admin/login", gin.H{"secret": "brand-new-secret"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/dashboard", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
}
