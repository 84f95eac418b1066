package models

import "time"

// ManualReviewBookingID marks reviews submitted from the public form rather
// than against a specific booking.
const ManualReviewBookingID = "manually-added"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	BookingID    string    `json:"bookingId" gorm:"not null;default:'manually-added'"`
	CustomerName string    `json:"customerName" gorm:"not null"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment" gorm:"not null"`
	IsVisible    bool      `json:"isVisible" gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
}

func (Review) TableName() string {
	return "reviews"
}
