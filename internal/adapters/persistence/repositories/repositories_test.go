package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, store Store, email string, roles ...string) *models.User {
	t.Helper()
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: email, Password: "hash", Name: "Test"}
	require.NoError(t, store.Users().Create(ctx, user))

	found, err := store.Roles().FindByNames(ctx, roles)
	require.NoError(t, err)
	require.NoError(t, store.Users().AddRoles(ctx, user, found))
	return user
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()

	user := createUser(t, store, "ana@example.com", "patient", "doctor")

	byID, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
	assert.ElementsMatch(t, []string{"patient", "doctor"}, byID.RoleNames())

	byEmail, err := store.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	exists, err := store.Users().ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Users().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := NewStore(testdb.New(t))
	createUser(t, store, "dup@example.com")

	err := store.Users().Create(context.Background(), &models.User{
		ID: uuid.NewString(), Email: "dup@example.com", Password: "hash", Name: "Other",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_List(t *testing.T) {
	store := NewStore(testdb.New(t))
	createUser(t, store, "a@example.com", "patient")
	createUser(t, store, "b@example.com", "staff")
	createUser(t, store, "c@example.com", "admin")

	users, total, err := store.Users().List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Len(t, u.Roles, 1)
	}
}

func TestRoleRepository(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()

	roles, err := store.Roles().FindByNames(ctx, []string{"patient", "wizard"})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "patient", roles[0].Name)

	require.NoError(t, store.Roles().EnsureExists(ctx, []string{"patient", "nurse"}))
	roles, err = store.Roles().FindByNames(ctx, []string{"patient", "nurse"})
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestProfileRepository(t *testing.T) {
	store := NewStore(testdb.New(t))
	ctx := context.Background()
	user := createUser(t, store, "doc@example.com", "patient", "doctor", "staff")

	require.NoError(t, store.Profiles().Create(ctx, user.ID, domain.PatientProfile{Address: strPtr("1 Main St")}))
	require.NoError(t, store.Profiles().Create(ctx, user.ID, domain.DoctorProfile{FacilityID: "fac-1"}))
	require.NoError(t, store.Profiles().Create(ctx, user.ID, domain.StaffProfile{FacilityID: "fac-2", Position: strPtr("nurse")}))

	// one row per role per user
	err := store.Profiles().Create(ctx, user.ID, domain.DoctorProfile{FacilityID: "fac-3"})
	assert.Error(t, err)

	doctor, err := store.Profiles().GetDoctor(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "fac-1", doctor.FacilityID)

	staff, err := store.Profiles().GetStaff(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "nurse", *staff.Position)

	n, err := store.Profiles().UpdatePatient(ctx, user.ID, map[string]interface{}{"allergies": "penicillin"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	patient, err := store.Profiles().GetPatient(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", *patient.Address)
	assert.Equal(t, "penicillin", *patient.Allergies)
	assert.Nil(t, patient.BloodGroup)
}

func TestStore_WithTransactionRollsBack(t *testing.T) {
	db := testdb.New(t)
	store := NewStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTransaction(ctx, func(tx Store) error {
		user := &models.User{ID: uuid.NewString(), Email: "tx@example.com", Password: "hash", Name: "Tx"}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Profiles().Create(ctx, user.ID, domain.PatientProfile{}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Zero(t, testdb.Count(t, db, "users", "email = ?", "tx@example.com"))
	assert.Zero(t, testdb.Count(t, db, "patients", ""))
	assert.NoError(t, store.Ping(ctx))
}

func TestRevokedTokenRepository(t *testing.T) {
	db := testdb.New(t)
	list := NewRevokedTokenRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, list.Add(ctx, "token-a", now.Add(time.Hour), now))
	require.NoError(t, list.Add(ctx, "token-a", now.Add(time.Hour), now))
	require.NoError(t, list.Add(ctx, "token-old", now.Add(-time.Minute), now))

	revoked, err := list.Contains(ctx, "token-a", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.Contains(ctx, "token-b", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = list.Contains(ctx, "token-old", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	purged, err := list.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
	assert.EqualValues(t, 2, testdb.Count(t, db, "revoked_tokens", ""))
}
