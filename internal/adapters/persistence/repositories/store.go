package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store on top of a gorm handle
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *gormStore) Roles() RoleRepository {
	return NewRoleRepository(s.db)
}

func (s *gormStore) Profiles() ProfileRepository {
	return NewProfileRepository(s.db)
}

// WithTransaction runs fn inside a database transaction
func (s *gormStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// Ping checks the underlying connection
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
