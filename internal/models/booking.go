package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions is the booking lifecycle. Nothing leads back into pending,
// and completed/cancelled have no outgoing edges.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusCompleted: true, BookingStatusCancelled: true},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	_, ok := allowedTransitions[status]
	return status, ok
}

func CanTransition(from, to BookingStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// ReleasesVehicle reports whether entering this status frees the booked vehicle.
func (s BookingStatus) ReleasesVehicle() bool {
	return s.IsTerminal()
}

// NextStatuses lists the transitions an operator is offered, in display order.
func (s BookingStatus) NextStatuses() []BookingStatus {
	switch s {
	case BookingStatusPending:
		return []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled}
	case BookingStatusConfirmed:
		return []BookingStatus{BookingStatusCompleted, BookingStatusCancelled}
	default:
		return []BookingStatus{}
	}
}

// Cancellable is true while the customer may still cancel from the tracking page.
func (s BookingStatus) Cancellable() bool {
	return CanTransition(s, BookingStatusCancelled)
}

type ServiceType string

const (
	ServiceTypeWithDriver ServiceType = "with-driver"
	ServiceTypeSelfDrive  ServiceType = "self-drive"
)

func (t ServiceType) Valid() bool {
	return t == ServiceTypeWithDriver || t == ServiceTypeSelfDrive
}

// SelfDriveDropLocation is stored in place of a drop location for self-drive rentals.
const SelfDriveDropLocation = "N/A (Self-Drive)"

type Booking struct {
	ID                  string        `json:"id" gorm:"primaryKey;type:text"`
	CustomerName        string        `json:"customerName" gorm:"not null"`
	CustomerPhone       string        `json:"customerPhone" gorm:"not null"`
	PickupLocation      string        `json:"pickupLocation" gorm:"not null"`
	DropLocation        string        `json:"dropLocation"`
	Date                string        `json:"date" gorm:"not null"`
	Time                string        `json:"time" gorm:"not null"`
	VehicleID           string        `json:"vehicleId" gorm:"not null;index"`
	Vehicle             *Vehicle      `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID;constraint:OnDelete:RESTRICT"`
	Status              BookingStatus `json:"status" gorm:"not null;default:'pending';index"`
	ServiceType         ServiceType   `json:"serviceType" gorm:"not null;default:'with-driver'"`
	PassengerCount      int           `json:"passengerCount" gorm:"not null;default:1"`
	SpecialRequirements string        `json:"specialRequirements,omitempty"`
	CreatedAt           time.Time     `json:"createdAt" gorm:"index"`
}

func (Booking) TableName() string {
	return "bookings"
}

// NormalizeBookingID turns user input into the stored identifier form.
func NormalizeBookingID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
