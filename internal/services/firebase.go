package services

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const notifyTimeout = 10 * time.Second

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// OperatorNotifier pushes new ride requests and customer cancellations to the
// operators' phones through an FCM topic.
type OperatorNotifier struct {
	client messageSender
	topic  string
	log    logrus.FieldLogger
}

// NewOperatorNotifier returns nil, nil when no service account is configured;
// push is optional.
func NewOperatorNotifier(ctx context.Context, serviceAccountPath, topic string, log logrus.FieldLogger) (*OperatorNotifier, error) {
	if serviceAccountPath == "" {
		log.Warn("FIREBASE_SERVICE_ACCOUNT_PATH not set, operator push notifications disabled")
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	log.WithField("topic", topic).Info("firebase cloud messaging initialized")
	return &OperatorNotifier{client: client, topic: topic, log: log}, nil
}

// Publish sends the push in the background so request handling never waits on FCM.
func (n *OperatorNotifier) Publish(event Event) {
	message := operatorMessage(event, n.topic)
	if message == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if _, err := n.client.Send(ctx, message); err != nil {
			n.log.WithError(err).WithField("type", event.Type).Error("failed to push operator notification")
		}
	}()
}

// operatorMessage returns nil for events operators are not paged about.
func operatorMessage(event Event, topic string) *messaging.Message {
	var title, body string
	data := map[string]string{"type": event.Type}

	switch e := event.Data.(type) {
	case models.Booking:
		if event.Type != EventBookingCreated {
			return nil
		}
		title = "New ride request 🚕"
		body = fmt.Sprintf("%s: %s → %s on %s %s", e.ID, e.PickupLocation, e.DropLocation, e.Date, e.Time)
		data["bookingId"] = e.ID
	case BookingStatusChange:
		if e.To != models.BookingStatusCancelled {
			return nil
		}
		title = "Booking cancelled"
		body = fmt.Sprintf("%s was cancelled, vehicle %s is free again", e.BookingID, e.VehicleID)
		data["bookingId"] = e.BookingID
	default:
		return nil
	}

	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    "bookings",
				DefaultSound: true,
			},
		},
	}
}
