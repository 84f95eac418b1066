package database

import (
	"context"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// DefaultFleet is inserted when the vehicles collection is empty.
var DefaultFleet = []models.Vehicle{
	{
		ID:          "v1",
		Name:        "Maruti Suzuki Baleno",
		Seats:       5,
		AC:          true,
		PricePerKm:  11,
		ImageURL:    "https://images.unsplash.com/photo-1619767886558-efdc259cde1a?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "Premium hatchback for urban luxury. Perfect for small families and smooth city cruises in Giridih.",
	},
	{
		ID:          "v2",
		Name:        "Swift Dzire (Sedan)",
		Seats:       5,
		AC:          true,
		PricePerKm:  12,
		ImageURL:    "https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "The standard for reliable inter-city travel. Comfortable seating with massive boot space for luggage.",
	},
	{
		ID:          "v3",
		Name:        "Maruti Suzuki Ertiga",
		Seats:       7,
		AC:          true,
		PricePerKm:  16,
		ImageURL:    "https://images.unsplash.com/photo-1621993202323-f438eec639ff?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "The ultimate family MPV. Spacious 7-seater with dual AC, ideal for group trips to Ranchi or Dhanbad.",
	},
	{
		ID:          "v4",
		Name:        "Toyota Innova Crysta",
		Seats:       7,
		AC:          true,
		PricePerKm:  22,
		ImageURL:    "https://images.unsplash.com/photo-1606611013016-969c19ba27bb?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "Gold standard of luxury travel. Captain seats and unmatched highway stability for elite travelers.",
	},
	{
		ID:          "v5",
		Name:        "Mahindra Scorpio-N",
		Seats:       7,
		AC:          true,
		PricePerKm:  19,
		ImageURL:    "https://images.unsplash.com/photo-1695642610255-7037748ca052?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "Rugged luxury for Jharkhand roads. Ideal for temple yatras and long highway runs across the state.",
	},
	{
		ID:          "v6",
		Name:        "Force Traveller Luxury",
		Seats:       17,
		AC:          true,
		PricePerKm:  28,
		ImageURL:    "https://images.unsplash.com/photo-1619642751034-765dfdf7c58e?q=80&w=1200&auto=format&fit=crop",
		Status:      models.VehicleStatusAvailable,
		Description: "Spacious coach for weddings and pilgrimages. High roof and premium seating for large families.",
	},
}

// SeedFleet inserts DefaultFleet into an empty store. Failures are logged and
// swallowed so a read-only or unreachable store does not block startup.
func SeedFleet(ctx context.Context, store repository.Store, log logrus.FieldLogger) {
	count, err := store.CountVehicles(ctx)
	if err != nil {
		log.WithError(err).Warn("skipping fleet seed")
		return
	}
	if count > 0 {
		return
	}

	fleet := make([]models.Vehicle, len(DefaultFleet))
	copy(fleet, DefaultFleet)
	if err := store.SeedVehicles(ctx, fleet); err != nil {
		log.WithError(err).Error("failed to seed default fleet")
		return
	}
	log.WithField("vehicles", len(fleet)).Info("seeded default fleet")
}
