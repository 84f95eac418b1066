package database

import (
	"github.com/arihantcabs/booking-backend/internal/models"
	"gorm.io/gorm"
)

// checkConstraints mirror the enumerated fields of the domain types.
var checkConstraints = []struct {
	table, name, check string
}{
	{"vehicles", "vehicles_status_check", "status IN ('available', 'booked')"},
	{"vehicles", "vehicles_seats_check", "seats > 0"},
	{"bookings", "bookings_status_check", "status IN ('pending', 'confirmed', 'completed', 'cancelled')"},
	{"bookings", "bookings_service_type_check", "service_type IN ('with-driver', 'self-drive')"},
	{"bookings", "bookings_passenger_count_check", "passenger_count > 0"},
	{"reviews", "reviews_rating_check", "rating BETWEEN 1 AND 5"},
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Vehicle{},
		&models.Booking{},
		&models.Review{},
		&models.AdminConfig{},
	)
	if err != nil {
		return err
	}

	for _, c := range checkConstraints {
		if err := db.Exec(`ALTER TABLE ` + c.table + ` DROP CONSTRAINT IF EXISTS ` + c.name).Error; err != nil {
			return err
		}
		if err := db.Exec(`ALTER TABLE ` + c.table + ` ADD CONSTRAINT ` + c.name + ` CHECK (` + c.check + `)`).Error; err != nil {
			return err
		}
	}

	return nil
}
