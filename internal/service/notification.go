package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"cargoexchange/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationListingCreated NotificationType = "LISTING_CREATED"
	NotificationMatchAccepted  NotificationType = "MATCH_ACCEPTED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService handles notification delivery to shippers.
type NotificationService struct {
	logf func(format string, args ...any)
}

// NewNotificationService creates a new NotificationService that writes to the standard logger.
func NewNotificationService() *NotificationService {
	return &NotificationService{logf: log.Printf}
}

// NotifyListingCreated confirms a new listing to its owner.
func (s *NotificationService) NotifyListingCreated(ctx context.Context, listing *domain.CargoListing) error {
	return s.send(ctx, Notification{
		Type:        NotificationListingCreated,
		RecipientID: listing.UserID,
		Title:       "Cargo Listed",
		Message:     fmt.Sprintf("Your %s cargo %s is now open for matching", listing.CargoType, listing.Route()),
		Data: map[string]any{
			"cargo_id": listing.ID,
			"route":    listing.Route(),
		},
	})
}

// NotifyMatchAccepted tells both owners where and with whom they swap loads.
func (s *NotificationService) NotifyMatchAccepted(ctx context.Context, candidate *domain.MatchCandidate) error {
	sides := []struct {
		self, other *domain.CargoListing
	}{
		{candidate.Listing1, candidate.Listing2},
		{candidate.Listing2, candidate.Listing1},
	}

	for _, side := range sides {
		err := s.send(ctx, Notification{
			Type:        NotificationMatchAccepted,
			RecipientID: side.self.UserID,
			Title:       "Match Accepted",
			Message: fmt.Sprintf("Your cargo %s is paired with %s. Exchange at %s",
				side.self.Route(), side.other.Route(), candidate.ExchangePoint),
			Data: map[string]any{
				"cargo_id":       side.self.ID,
				"partner_id":     side.other.ID,
				"exchange_point": candidate.ExchangePoint,
				"cost_savings":   candidate.CostSavings,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// send delivers a notification. Delivery is log-only for now.
func (s *NotificationService) send(_ context.Context, notification Notification) error {
	if notification.RecipientID == "" {
		return nil
	}
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	s.logf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
