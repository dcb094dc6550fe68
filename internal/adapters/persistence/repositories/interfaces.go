package repositories

import (
	"context"
	"time"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddRoles(ctx context.Context, user *models.User, roles []models.Role) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	FindByNames(ctx context.Context, names []string) ([]models.Role, error)
	EnsureExists(ctx context.Context, names []string) error
}

// ProfileRepository stores the role extensions keyed by user id
type ProfileRepository interface {
	Create(ctx context.Context, userID string, profile domain.Profile) error
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetStaff(ctx context.Context, id string) (*models.Staff, error)
	UpdatePatient(ctx context.Context, id string, updates map[string]interface{}) (int64, error)
}

// RevocationList records tokens invalidated before their natural expiry.
// now is the caller's clock. Implementations must be safe for concurrent use.
type RevocationList interface {
	Add(ctx context.Context, token string, expiresAt, now time.Time) error
	Contains(ctx context.Context, token string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store groups the credential repositories behind a unit of work
type Store interface {
	Users() UserRepository
	Roles() RoleRepository
	Profiles() ProfileRepository

	// WithTransaction runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
