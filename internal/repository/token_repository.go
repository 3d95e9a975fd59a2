package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"canopy/internal/model"
)

// TokenRepository defines device push token persistence operations.
type TokenRepository interface {
	Upsert(ctx context.Context, userID uint, fcmToken, deviceInfo string) error
	ListByUser(ctx context.Context, userID uint) ([]model.UserToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Upsert updates the user's token row if one exists, else inserts it.
func (r *tokenRepository) Upsert(ctx context.Context, userID uint, fcmToken, deviceInfo string) error {
	var existing model.UserToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&existing).
			Updates(map[string]interface{}{
				"fcm_token":    fcmToken,
				"device_info":  deviceInfo,
				"last_updated": time.Now(),
			}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	token := &model.UserToken{
		UserID:      userID,
		FCMToken:    fcmToken,
		DeviceInfo:  deviceInfo,
		LastUpdated: time.Now(),
	}
	return r.db.WithContext(ctx).Create(token).Error
}

// ListByUser returns all push tokens registered for a user.
func (r *tokenRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserToken, error) {
	var tokens []model.UserToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
