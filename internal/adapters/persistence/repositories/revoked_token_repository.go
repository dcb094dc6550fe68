package repositories

import (
	"context"
	"time"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/pkg/password"

	"gorm.io/gorm"
)

// revokedTokenRepository implements RevocationList on the revoked_tokens table
type revokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new revoked token repository
func NewRevokedTokenRepository(db *gorm.DB) RevocationList {
	return &revokedTokenRepository{db: db}
}

// Add records a token. Recording the same token twice is harmless; expired
// rows are left for DeleteExpired.
func (r *revokedTokenRepository) Add(ctx context.Context, token string, expiresAt, _ time.Time) error {
	return r.db.WithContext(ctx).Create(&models.RevokedToken{
		Token:     token,
		TokenHash: password.HashToken(token),
		ExpiresAt: expiresAt,
	}).Error
}

// Contains checks for a non-expired entry of the exact token
func (r *revokedTokenRepository) Contains(ctx context.Context, token string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_hash = ?", password.HashToken(token)).
		Where("token = ?", token).
		Where("expires_at > ?", now).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired deletes all expired entries (cleanup job)
func (r *revokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
