package services

import (
	"context"
	"strings"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/arihantcabs/booking-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ReviewService struct {
	store  repository.Store
	events EventPublisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewReviewService(store repository.Store, events EventPublisher, log logrus.FieldLogger) *ReviewService {
	if events == nil {
		events = Publishers{}
	}
	return &ReviewService{store: store, events: events, log: log, now: time.Now}
}

type ReviewRequest struct {
	CustomerName string `json:"customerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

func (s *ReviewService) ListVisible(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx, true)
}

// Submit stores a review that stays hidden until an operator approves it.
func (s *ReviewService) Submit(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	name := strings.TrimSpace(req.CustomerName)
	comment := strings.TrimSpace(req.Comment)
	switch {
	case name == "":
		return nil, &models.ValidationError{Field: "customerName", Message: "Please enter your name."}
	case comment == "":
		return nil, &models.ValidationError{Field: "comment", Message: "Please write a few words about your trip."}
	case req.Rating < models.MinRating || req.Rating > models.MaxRating:
		return nil, &models.ValidationError{Field: "rating", Message: "Rating must be between 1 and 5."}
	}

	review := models.Review{
		ID:           uuid.NewString(),
		BookingID:    models.ManualReviewBookingID,
		CustomerName: name,
		Rating:       req.Rating,
		Comment:      comment,
		IsVisible:    false,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateReview(ctx, &review); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"review": review.ID, "rating": review.Rating}).Info("review submitted")
	s.events.Publish(Event{Type: EventReviewSubmitted, Data: review})
	return &review, nil
}
