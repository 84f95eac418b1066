package models

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusBooked    VehicleStatus = "booked"
)

func (s VehicleStatus) Valid() bool {
	return s == VehicleStatusAvailable || s == VehicleStatusBooked
}

// Toggled returns the opposite availability, used by the operator override.
func (s VehicleStatus) Toggled() VehicleStatus {
	if s == VehicleStatusAvailable {
		return VehicleStatusBooked
	}
	return VehicleStatusAvailable
}

type Vehicle struct {
	ID          string        `json:"id" gorm:"primaryKey;type:text"`
	Name        string        `json:"name" gorm:"not null"`
	Seats       int           `json:"seats" gorm:"not null"`
	AC          bool          `json:"ac" gorm:"column:ac;not null"`
	PricePerKm  float64       `json:"pricePerKm" gorm:"not null"`
	ImageURL    string        `json:"imageUrl"`
	Status      VehicleStatus `json:"status" gorm:"not null;default:'available'"`
	Description string        `json:"description,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// CanCarry reports whether the vehicle may be offered for a trip with the
// given number of passengers.
func (v Vehicle) CanCarry(passengers int) bool {
	return v.Status == VehicleStatusAvailable && v.Seats >= passengers
}

// FilterCandidates keeps the vehicles that CanCarry the passengers, preserving order.
func FilterCandidates(vehicles []Vehicle, passengers int) []Vehicle {
	candidates := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.CanCarry(passengers) {
			candidates = append(candidates, v)
		}
	}
	return candidates
}
