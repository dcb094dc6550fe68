package services

import (
	"context"
	"log"
	"time"

	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/pkg/jwt"
)

// RevocationService records logged-out tokens until they expire
type RevocationService struct {
	list repositories.RevocationList
	now  func() time.Time
}

// NewRevocationService creates a new revocation service
func NewRevocationService(list repositories.RevocationList) *RevocationService {
	return &RevocationService{list: list, now: time.Now}
}

// Revoke records the raw token under its own expiry. The signature is not
// checked; a token without a readable expiry is ignored.
func (s *RevocationService) Revoke(ctx context.Context, token string) error {
	expiresAt, err := jwt.DecodeExpiry(token)
	if err != nil {
		log.Printf("⚠️ Not revoking token without readable expiry: %v", err)
		return nil
	}
	return s.list.Add(ctx, token, expiresAt, s.now())
}

// IsRevoked reports whether the exact token has a live entry
func (s *RevocationService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.list.Contains(ctx, token, s.now())
}

// PurgeExpired removes entries whose token has expired anyway
func (s *RevocationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.list.DeleteExpired(ctx, s.now())
}
