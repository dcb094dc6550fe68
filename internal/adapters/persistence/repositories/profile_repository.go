package repositories

import (
	"context"
	"fmt"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/core/domain"

	"gorm.io/gorm"
)

// profileRepository implements ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts the extension row matching the profile variant
func (r *profileRepository) Create(ctx context.Context, userID string, profile domain.Profile) error {
	var row interface{}

	switch p := profile.(type) {
	case domain.PatientProfile:
		row = &models.Patient{
			ID:         userID,
			Address:    p.Address,
			BloodGroup: p.BloodGroup,
			Diagnosis:  p.Diagnosis,
			Allergies:  p.Allergies,
		}
	case domain.DoctorProfile:
		row = &models.Doctor{
			ID:             userID,
			FacilityID:     p.FacilityID,
			Specialization: p.Specialization,
			LicenseNumber:  p.LicenseNumber,
		}
	case domain.StaffProfile:
		row = &models.Staff{
			ID:         userID,
			FacilityID: p.FacilityID,
			Position:   p.Position,
		}
	default:
		return fmt.Errorf("unsupported profile type %T", profile)
	}

	return r.db.WithContext(ctx).Create(row).Error
}

// GetPatient gets a patient profile by user ID
func (r *profileRepository) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// GetDoctor gets a doctor profile by user ID
func (r *profileRepository) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// GetStaff gets a staff profile by user ID
func (r *profileRepository) GetStaff(ctx context.Context, id string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// UpdatePatient applies a column map to the patient row and reports how many
// rows matched. Columns absent from updates are left untouched.
func (r *profileRepository) UpdatePatient(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}
