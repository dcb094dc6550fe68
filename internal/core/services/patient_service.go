package services

import (
	"context"
	"errors"
	"fmt"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/validator"

	"gorm.io/gorm"
)

// PatientService handles patient profile reads and edits
type PatientService struct {
	store     repositories.Store
	validator *validator.Validator
}

// NewPatientService creates a new patient service
func NewPatientService(store repositories.Store, v *validator.Validator) *PatientService {
	return &PatientService{store: store, validator: v}
}

// UpdatePatientInput is a partial update; nil fields are left untouched
type UpdatePatientInput struct {
	Address    *string `json:"address" validate:"omitempty,max=255"`
	BloodGroup *string `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Diagnosis  *string `json:"diagnosis" validate:"omitempty,max=2000"`
	Allergies  *string `json:"allergies" validate:"omitempty,max=2000"`
}

// updates returns only the supplied columns
func (in *UpdatePatientInput) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.BloodGroup != nil {
		updates["blood_group"] = *in.BloodGroup
	}
	if in.Diagnosis != nil {
		updates["diagnosis"] = *in.Diagnosis
	}
	if in.Allergies != nil {
		updates["allergies"] = *in.Allergies
	}
	return updates
}

// GetProfile gets the patient profile of a user
func (s *PatientService) GetProfile(ctx context.Context, userID string) (*models.Patient, error) {
	patient, err := s.store.Profiles().GetPatient(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	return patient, nil
}

// UpdateProfile applies a partial update to the user's own patient profile
func (s *PatientService) UpdateProfile(ctx context.Context, userID string, input *UpdatePatientInput) (*models.Patient, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	updates := input.updates()
	if len(updates) == 0 {
		return nil, domain.ErrNoProfileFields
	}

	var patient *models.Patient
	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Profiles().GetPatient(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}

		if _, err := tx.Profiles().UpdatePatient(ctx, userID, updates); err != nil {
			return err
		}

		var err error
		patient, err = tx.Profiles().GetPatient(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}

	return patient, nil
}
