package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/arihantcabs/booking-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.db.WithContext(ctx).Order("name").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *GormStore) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "get vehicle")
	}
	return &vehicle, nil
}

func (s *GormStore) CountVehicles(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return count, nil
}

func (s *GormStore) SeedVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&vehicles).Error
	if err != nil {
		return fmt.Errorf("seed vehicles: %w", err)
	}
	return nil
}

func (s *GormStore) UpsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(vehicleUpdateColumns(vehicle)),
		}).
		Create(vehicle).Error
	if err != nil {
		return fmt.Errorf("upsert vehicle: %w", err)
	}
	return nil
}

// vehicleUpdateColumns leaves status to the allocation path unless the
// operator set it explicitly.
func vehicleUpdateColumns(vehicle *models.Vehicle) []string {
	columns := []string{"name", "seats", "ac", "price_per_km", "description"}
	if vehicle.ImageURL != "" {
		columns = append(columns, "image_url")
	}
	if vehicle.Status != "" {
		columns = append(columns, "status")
	}
	return columns
}

func (s *GormStore) SetVehicleImage(ctx context.Context, id, url string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("image_url", url)
	return affectedOne(result, "set vehicle image")
}

func (s *GormStore) DeleteVehicle(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Vehicle{}, "id = ?", id)
	return affectedOne(result, "delete vehicle")
}

func (s *GormStore) SetVehicleStatus(ctx context.Context, id string, status models.VehicleStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("status", status)
	return affectedOne(result, "set vehicle status")
}

func (s *GormStore) AllocateVehicle(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ? AND status = ?", id, models.VehicleStatusAvailable).
		Update("status", models.VehicleStatusBooked)
	if result.Error != nil {
		return fmt.Errorf("allocate vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVehicleUnavailable
	}
	return nil
}

func (s *GormStore) ReleaseVehicle(ctx context.Context, id string) error {
	return s.SetVehicleStatus(ctx, id, models.VehicleStatusAvailable)
}

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := s.db.WithContext(ctx).Omit("Vehicle").Create(booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *GormStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "get booking")
	}
	return &booking, nil
}

func (s *GormStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *GormStore) CountBookingsForVehicle(ctx context.Context, vehicleID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count vehicle bookings: %w", err)
	}
	return count, nil
}

func (s *GormStore) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("update booking status: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStatusConflict
}

func (s *GormStore) ListReviews(ctx context.Context, visibleOnly bool) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Order("created_at desc")
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (s *GormStore) SetReviewVisibility(ctx context.Context, id string, visible bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("is_visible", visible)
	return affectedOne(result, "set review visibility")
}

func (s *GormStore) DeleteReview(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	return affectedOne(result, "delete review")
}

func (s *GormStore) GetConfig(ctx context.Context, key string) (string, error) {
	var row models.AdminConfig
	if err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		return "", notFound(err, "get config")
	}
	return row.Value, nil
}

func (s *GormStore) SetConfig(ctx context.Context, key, value string) error {
	row := models.AdminConfig{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	return nil
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affectedOne(result *gorm.DB, op string) error {
	if result.Error != nil {
		return fmt.Errorf("%s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
