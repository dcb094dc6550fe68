package config

import (
	"context"
	"log"

	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/core/domain"
)

// Seeder handles database seeding
type Seeder struct {
	store repositories.Store
}

// NewSeeder creates a new seeder instance
func NewSeeder(store repositories.Store) *Seeder {
	return &Seeder{store: store}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(ctx); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles makes sure every known role exists; registration resolves
// requested role names against this table
func (s *Seeder) seedRoles(ctx context.Context) error {
	names := make([]string, 0, len(domain.KnownRoles))
	for _, r := range domain.KnownRoles {
		names = append(names, string(r))
	}
	return s.store.Roles().EnsureExists(ctx, names)
}
