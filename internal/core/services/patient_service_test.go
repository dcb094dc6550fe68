package services

import (
	"context"
	"testing"

	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientService_PartialUpdate(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	patients := NewPatientService(env.store, validator.New("IN"))

	input := patientInput("p@example.com")
	input.PatientProfile = &domain.PatientProfile{
		Address:    strPtr("12 MG Road"),
		BloodGroup: strPtr("B+"),
		Diagnosis:  strPtr("hypertension"),
	}
	resp, err := env.auth.Register(ctx, input)
	require.NoError(t, err)

	updated, err := patients.UpdateProfile(ctx, resp.User.ID, &UpdatePatientInput{Allergies: strPtr("peanuts")})
	require.NoError(t, err)

	assert.Equal(t, "peanuts", *updated.Allergies)
	assert.Equal(t, "12 MG Road", *updated.Address)
	assert.Equal(t, "B+", *updated.BloodGroup)
	assert.Equal(t, "hypertension", *updated.Diagnosis)

	got, err := patients.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Allergies, got.Allergies)
}

func TestPatientService_UpdateErrors(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	patients := NewPatientService(env.store, validator.New("IN"))

	resp, err := env.auth.Register(ctx, patientInput("p2@example.com"))
	require.NoError(t, err)

	_, err = patients.UpdateProfile(ctx, resp.User.ID, &UpdatePatientInput{})
	assert.ErrorIs(t, err, domain.ErrNoProfileFields)

	_, err = patients.UpdateProfile(ctx, resp.User.ID, &UpdatePatientInput{BloodGroup: strPtr("Z+")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// blood group cannot be cleared, only replaced
	_, err = patients.UpdateProfile(ctx, resp.User.ID, &UpdatePatientInput{BloodGroup: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	cleared, err := patients.UpdateProfile(ctx, resp.User.ID, &UpdatePatientInput{Address: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, cleared.Address)
	assert.Empty(t, *cleared.Address)

	// a doctor-only account has no patient row
	doc := patientInput("doc-only@example.com")
	doc.Roles = []string{"doctor"}
	doc.DoctorProfile = &domain.DoctorProfile{FacilityID: "fac-1"}
	docResp, err := env.auth.Register(ctx, doc)
	require.NoError(t, err)

	_, err = patients.UpdateProfile(ctx, docResp.User.ID, &UpdatePatientInput{Address: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = patients.GetProfile(ctx, docResp.User.ID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
