package services

import "github.com/arihantcabs/booking-backend/internal/models"

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventVehicleStatusChanged = "vehicle_status_changed"
	EventVehicleUpdated       = "vehicle_updated"
	EventVehicleDeleted       = "vehicle_deleted"
	EventReviewSubmitted      = "review_submitted"
	EventReviewUpdated        = "review_updated"
)

// Event is what the back-office live feed and operator push receive.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type EventPublisher interface {
	Publish(event Event)
}

// Publishers fans one event out to several publishers.
type Publishers []EventPublisher

func (p Publishers) Publish(event Event) {
	for _, pub := range p {
		if pub != nil {
			pub.Publish(event)
		}
	}
}

type BookingStatusChange struct {
	BookingID string               `json:"bookingId"`
	VehicleID string               `json:"vehicleId"`
	From      models.BookingStatus `json:"from"`
	To        models.BookingStatus `json:"to"`
	Released  bool                 `json:"vehicleReleased"`
}

type VehicleStatusChange struct {
	VehicleID string               `json:"vehicleId"`
	Status    models.VehicleStatus `json:"status"`
}
