package models

import (
	"errors"
	"strings"
	"time"
)

type DraftStep string

const (
	DraftStepTrip      DraftStep = "collecting_trip"
	DraftStepVehicle   DraftStep = "selecting_vehicle"
	DraftStepContact   DraftStep = "confirming_contact"
	DraftStepSubmitted DraftStep = "submitted"
)

var (
	ErrDraftStep      = errors.New("booking draft is not at this step")
	ErrDraftSubmitted = errors.New("booking draft was already submitted")
)

// InsightFunc produces the advisory text shown once trip details are accepted.
type InsightFunc func(pickup, drop string, passengers int) string

type TripDetails struct {
	ServiceType    ServiceType `json:"serviceType"`
	Pickup         string      `json:"pickup"`
	Drop           string      `json:"drop"`
	Date           string      `json:"date"`
	Time           string      `json:"time"`
	PassengerCount int         `json:"passengerCount"`
}

func (t *TripDetails) normalize() {
	t.Pickup = strings.TrimSpace(t.Pickup)
	t.Drop = strings.TrimSpace(t.Drop)
	t.Date = strings.TrimSpace(t.Date)
	t.Time = strings.TrimSpace(t.Time)
	if t.ServiceType == "" {
		t.ServiceType = ServiceTypeWithDriver
	}
	if t.PassengerCount == 0 {
		t.PassengerCount = 1
	}
}

func (t TripDetails) Validate() error {
	if !t.ServiceType.Valid() {
		return invalid("serviceType", "Unknown service type.")
	}
	if t.Pickup == "" || t.Date == "" || t.Time == "" {
		return invalid("trip", "Please fill the trip details!")
	}
	if t.ServiceType == ServiceTypeWithDriver && t.Drop == "" {
		return invalid("drop", "Drop location is required for driver service.")
	}
	if t.PassengerCount < 1 {
		return invalid("passengerCount", "At least one passenger is required.")
	}
	return nil
}

type ContactDetails struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`
}

func (c ContactDetails) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return invalid("contact", "Please enter your name and phone number.")
	}
	return nil
}

// BookingDraft is the three step booking wizard: trip details, vehicle
// selection, contact confirmation. Only Submitted is terminal.
type BookingDraft struct {
	ID        string         `json:"id"`
	Step      DraftStep      `json:"step"`
	Trip      TripDetails    `json:"trip"`
	Insights  string         `json:"insights,omitempty"`
	VehicleID string         `json:"vehicleId,omitempty"`
	Contact   ContactDetails `json:"contact"`
	BookingID string         `json:"bookingId,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func NewBookingDraft(id string, now time.Time) *BookingDraft {
	return &BookingDraft{
		ID:        id,
		Step:      DraftStepTrip,
		Trip:      TripDetails{ServiceType: ServiceTypeWithDriver, PassengerCount: 1},
		UpdatedAt: now,
	}
}

func (d *BookingDraft) expect(step DraftStep) error {
	if d.Step == DraftStepSubmitted {
		return ErrDraftSubmitted
	}
	if d.Step != step {
		return ErrDraftStep
	}
	return nil
}

// SubmitTrip accepts trip details and moves to vehicle selection.
func (d *BookingDraft) SubmitTrip(trip TripDetails, insights InsightFunc) error {
	if err := d.expect(DraftStepTrip); err != nil {
		return err
	}
	trip.normalize()
	if err := trip.Validate(); err != nil {
		return err
	}
	d.Trip = trip
	d.Insights = insights(trip.Pickup, trip.Drop, trip.PassengerCount)
	d.VehicleID = ""
	d.Step = DraftStepVehicle
	return nil
}

// SelectVehicle accepts a vehicle that can carry the party and moves to contact confirmation.
func (d *BookingDraft) SelectVehicle(v Vehicle) error {
	if err := d.expect(DraftStepVehicle); err != nil {
		return err
	}
	if v.ID == "" {
		return invalid("vehicleId", "Please select a vehicle!")
	}
	if v.Status != VehicleStatusAvailable {
		return invalid("vehicleId", "This vehicle is no longer available.")
	}
	if v.Seats < d.Trip.PassengerCount {
		return invalid("vehicleId", "This vehicle does not have enough seats for your group.")
	}
	d.VehicleID = v.ID
	d.Step = DraftStepContact
	return nil
}

// ConfirmContact validates the contact details. The draft only becomes
// Submitted once the booking has been persisted, see MarkSubmitted.
func (d *BookingDraft) ConfirmContact(c ContactDetails) error {
	if err := d.expect(DraftStepContact); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.SpecialRequirements = strings.TrimSpace(c.SpecialRequirements)
	if err := c.Validate(); err != nil {
		return err
	}
	d.Contact = c
	return nil
}

func (d *BookingDraft) MarkSubmitted(bookingID string) {
	d.BookingID = bookingID
	d.Step = DraftStepSubmitted
}

// Back returns to the previous step, dropping whatever the left step collected.
// On the first step it is a no-op.
func (d *BookingDraft) Back() error {
	switch d.Step {
	case DraftStepSubmitted:
		return ErrDraftSubmitted
	case DraftStepContact:
		d.Contact = ContactDetails{}
		d.VehicleID = ""
		d.Step = DraftStepVehicle
	case DraftStepVehicle:
		d.Insights = ""
		d.Step = DraftStepTrip
	}
	return nil
}

// NewBooking builds the pending booking the draft describes.
func (d *BookingDraft) NewBooking(id string, now time.Time) Booking {
	drop := d.Trip.Drop
	if d.Trip.ServiceType == ServiceTypeSelfDrive {
		drop = SelfDriveDropLocation
	}
	return Booking{
		ID:                  id,
		CustomerName:        d.Contact.Name,
		CustomerPhone:       d.Contact.Phone,
		PickupLocation:      d.Trip.Pickup,
		DropLocation:        drop,
		Date:                d.Trip.Date,
		Time:                d.Trip.Time,
		VehicleID:           d.VehicleID,
		Status:              BookingStatusPending,
		ServiceType:         d.Trip.ServiceType,
		PassengerCount:      d.Trip.PassengerCount,
		SpecialRequirements: d.Contact.SpecialRequirements,
		CreatedAt:           now,
	}
}
