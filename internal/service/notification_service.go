package service

import (
	"context"
	"fmt"
	"log"

	apperrors "canopy/internal/errors"
	"canopy/internal/model"
	"canopy/internal/push"
	"canopy/internal/repository"
)

const pushTitle = "Tree Submission Update"

// NotificationService persists notifications, fans them out to device
// tokens, and manages token registration.
type NotificationService interface {
	NotificationDispatcher
	SaveToken(ctx context.Context, user *model.User, fcmToken, deviceInfo string) error
	ListForUser(ctx context.Context, user *model.User) ([]model.Notification, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	tokenRepo        repository.TokenRepository
	sender           push.Sender
}

// NewNotificationService builds a NotificationService. sender may be nil
// when push delivery is not configured; notifications are still persisted.
func NewNotificationService(notificationRepo repository.NotificationRepository, tokenRepo repository.TokenRepository, sender push.Sender) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		tokenRepo:        tokenRepo,
		sender:           sender,
	}
}

// Dispatch persists the notification row, then attempts a push to every
// registered device token. Each send is independent: one token's failure is
// logged and does not affect the others or the caller. No retries, no
// dead-token cleanup.
func (s *notificationService) Dispatch(ctx context.Context, userID, treeID uint, typeTag, message string) error {
	notification := &model.Notification{
		UserID:  userID,
		TreeID:  treeID,
		Type:    typeTag,
		Message: message,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	tokens, err := s.tokenRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Printf("notifications: no push tokens for user %d", userID)
		return nil
	}
	if s.sender == nil {
		return nil
	}

	for _, token := range tokens {
		if token.FCMToken == "" {
			continue
		}
		if err := s.sender.Send(ctx, token.FCMToken, pushTitle, message); err != nil {
			log.Printf("notifications: push to token of user %d failed: %v", userID, err)
		}
	}
	return nil
}

// SaveToken upserts the caller's device push token.
func (s *notificationService) SaveToken(ctx context.Context, user *model.User, fcmToken, deviceInfo string) error {
	if user == nil {
		return apperrors.ErrUnauthenticated
	}
	if fcmToken == "" {
		return apperrors.NewValidationError("fcmToken", "fcm token is required")
	}
	if err := s.tokenRepo.Upsert(ctx, user.ID, fcmToken, deviceInfo); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// ListForUser returns the caller's notifications, newest first.
func (s *notificationService) ListForUser(ctx context.Context, user *model.User) ([]model.Notification, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.notificationRepo.ListByUser(ctx, user.ID)
}
