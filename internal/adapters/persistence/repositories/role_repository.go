package repositories

import (
	"context"

	"arogya-records/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// FindByNames returns the roles whose name is in names. Unknown names are
// simply absent from the result.
func (r *roleRepository) FindByNames(ctx context.Context, names []string) ([]models.Role, error) {
	var roles []models.Role
	if len(names) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&roles).Error
	return roles, err
}

// EnsureExists inserts any missing role names
func (r *roleRepository) EnsureExists(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, models.Role{Name: name})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&roles).Error
}
