package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/jwt"
	"arogya-records/internal/pkg/testdb"
	"arogya-records/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	store       repositories.Store
	tokens      *jwt.Manager
	revocations *RevocationService
	auth        *AuthService
	now         time.Time
}

func newTestEnv(t *testing.T, opts AuthOptions) *testEnv {
	t.Helper()

	env := &testEnv{now: time.Now()}
	env.db = testdb.New(t)
	env.store = repositories.NewStore(env.db)

	tokens, err := jwt.NewManager("test-secret", 24*time.Hour, 10*time.Second,
		jwt.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)
	env.tokens = tokens

	env.revocations = NewRevocationService(repositories.NewRevokedTokenRepository(env.db))
	env.revocations.now = func() time.Time { return env.now }

	opts.BcryptCost = bcrypt.MinCost
	env.auth, err = NewAuthService(env.store, tokens, env.revocations, validator.New("IN"), opts)
	require.NoError(t, err)

	return env
}

func strPtr(s string) *string { return &s }

func patientInput(email string) *RegisterInput {
	return &RegisterInput{
		Email:    email,
		Password: "s3cret-pass",
		Name:     "Asha Rao",
		Gender:   "female",
		Roles:    []string{"patient"},
	}
}

func TestRegister_Patient(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	input := patientInput(" Asha@Example.com ")
	input.Phone = strPtr("098765 43210")
	input.PatientProfile = &domain.PatientProfile{BloodGroup: strPtr("O+")}

	resp, err := env.auth.Register(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", resp.User.Email)
	assert.Equal(t, []string{"patient"}, resp.User.Roles)
	assert.Equal(t, "+919876543210", *resp.User.Phone)
	assert.NotEmpty(t, resp.Token)

	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	stored, err := env.store.Users().GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	patient, err := env.store.Profiles().GetPatient(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "O+", *patient.BloodGroup)
}

func TestRegister_DoctorAndStaff(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	input := patientInput("dr@example.com")
	input.Roles = []string{"doctor", "staff", "patient", "doctor"}
	input.DoctorProfile = &domain.DoctorProfile{FacilityID: "fac-9", Specialization: strPtr("cardiology")}
	input.StaffProfile = &domain.StaffProfile{FacilityID: "fac-9"}

	resp, err := env.auth.Register(ctx, input)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doctor", "staff", "patient"}, resp.User.Roles)

	assert.EqualValues(t, 1, testdb.Count(t, env.db, "doctors", "id = ?", resp.User.ID))
	assert.EqualValues(t, 1, testdb.Count(t, env.db, "staff", "id = ?", resp.User.ID))
	assert.EqualValues(t, 1, testdb.Count(t, env.db, "patients", "id = ?", resp.User.ID))
	assert.EqualValues(t, 3, testdb.Count(t, env.db, "user_roles", "user_id = ?", resp.User.ID))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	_, err := env.auth.Register(ctx, patientInput("dup@example.com"))
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, patientInput("DUP@example.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	assert.EqualValues(t, 1, testdb.Count(t, env.db, "users", ""))
	assert.EqualValues(t, 1, testdb.Count(t, env.db, "patients", ""))
	assert.EqualValues(t, 1, testdb.Count(t, env.db, "user_roles", ""))
}

func TestRegister_InvalidRole(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	input := patientInput("wizard@example.com")
	input.Roles = []string{"patient", "wizard"}

	_, err := env.auth.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	assert.Zero(t, testdb.Count(t, env.db, "users", "email = ?", "wizard@example.com"))
	assert.Zero(t, testdb.Count(t, env.db, "patients", ""))
	assert.Zero(t, testdb.Count(t, env.db, "user_roles", ""))
}

func TestRegister_IncompleteProfile(t *testing.T) {
	tests := []struct {
		name  string
		input func() *RegisterInput
	}{
		{
			name: "doctor without profile",
			input: func() *RegisterInput {
				in := patientInput("doc@example.com")
				in.Roles = []string{"patient", "doctor"}
				return in
			},
		},
		{
			name: "doctor with blank facility",
			input: func() *RegisterInput {
				in := patientInput("doc@example.com")
				in.Roles = []string{"doctor"}
				in.DoctorProfile = &domain.DoctorProfile{FacilityID: "  "}
				return in
			},
		},
		{
			name: "staff without facility",
			input: func() *RegisterInput {
				in := patientInput("doc@example.com")
				in.Roles = []string{"staff"}
				in.StaffProfile = &domain.StaffProfile{Position: strPtr("clerk")}
				return in
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, AuthOptions{})

			_, err := env.auth.Register(context.Background(), tt.input())
			assert.ErrorIs(t, err, domain.ErrIncompleteProfile)

			assert.Zero(t, testdb.Count(t, env.db, "users", ""))
			assert.Zero(t, testdb.Count(t, env.db, "patients", ""))
			assert.Zero(t, testdb.Count(t, env.db, "doctors", ""))
			assert.Zero(t, testdb.Count(t, env.db, "staff", ""))
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	_, err := env.auth.Register(context.Background(), &RegisterInput{
		Email:    "not-an-email",
		Password: "short",
		Roles:    []string{},
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["name"])
	assert.True(t, fields["roles"])
}

func TestRegister_ProfileValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		input func() *RegisterInput
	}{
		{
			name:  "unknown blood group",
			field: "patientProfile.bloodGroup",
			input: func() *RegisterInput {
				in := patientInput("bad-blood@example.com")
				in.PatientProfile = &domain.PatientProfile{BloodGroup: strPtr("NOT-A-GROUP")}
				return in
			},
		},
		{
			name:  "address too long",
			field: "patientProfile.address",
			input: func() *RegisterInput {
				in := patientInput("long-address@example.com")
				in.PatientProfile = &domain.PatientProfile{Address: strPtr(strings.Repeat("a", 256))}
				return in
			},
		},
		{
			name:  "facility id too long",
			field: "doctorProfile.facilityId",
			input: func() *RegisterInput {
				in := patientInput("long-facility@example.com")
				in.Roles = []string{"doctor"}
				in.DoctorProfile = &domain.DoctorProfile{FacilityID: strings.Repeat("f", 65)}
				return in
			},
		},
		{
			name:  "position too long",
			field: "staffProfile.position",
			input: func() *RegisterInput {
				in := patientInput("long-position@example.com")
				in.Roles = []string{"staff"}
				in.StaffProfile = &domain.StaffProfile{FacilityID: "fac-1", Position: strPtr(strings.Repeat("p", 101))}
				return in
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, AuthOptions{})

			_, err := env.auth.Register(context.Background(), tt.input())

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Zero(t, testdb.Count(t, env.db, "users", ""))
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	_, err := env.auth.Register(ctx, patientInput("login@example.com"))
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, &LoginInput{Email: "LOGIN@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "login@example.com", Password: "s3cret-pass!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, patientInput("auth@example.com"))
	require.NoError(t, err)

	session, err := env.auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, session.User.ID)
	assert.Equal(t, []string{"patient"}, session.User.RoleNames())

	_, err = env.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = env.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrMalformedToken)

	other, err := jwt.NewManager("other-secret", time.Hour, 0)
	require.NoError(t, err)
	foreign, _, err := other.Issue(resp.User.ID)
	require.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrUnknownSigner)

	orphan, _, err := env.tokens.Issue("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthenticate_ExpiryWindow(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	issuedAt := env.now

	resp, err := env.auth.Register(ctx, patientInput("expiry@example.com"))
	require.NoError(t, err)

	env.now = issuedAt.Add(23*time.Hour + 59*time.Minute)
	_, err = env.auth.Authenticate(ctx, resp.Token)
	assert.NoError(t, err)

	env.now = issuedAt.Add(24*time.Hour + time.Minute)
	_, err = env.auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	_, err := env.auth.Register(ctx, patientInput("out@example.com"))
	require.NoError(t, err)

	first, err := env.auth.Login(ctx, &LoginInput{Email: "out@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	env.now = env.now.Add(time.Second)
	second, err := env.auth.Login(ctx, &LoginInput{Email: "out@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	require.NoError(t, env.auth.Logout(ctx, first.Token))
	require.NoError(t, env.auth.Logout(ctx, first.Token))

	revoked, err := env.revocations.IsRevoked(ctx, first.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = env.revocations.IsRevoked(ctx, second.Token)
	require.NoError(t, err)
	assert.False(t, revoked)

	// the verifier does not consult the list unless asked to
	_, err = env.auth.Authenticate(ctx, first.Token)
	assert.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, second.Token)
	assert.NoError(t, err)

	assert.NoError(t, env.auth.Logout(ctx, ""))
	assert.NoError(t, env.auth.Logout(ctx, "garbage"))
}

func TestAuthenticate_EnforceRevocation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{EnforceRevocation: true})
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, patientInput("strict@example.com"))
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, resp.Token))

	_, err = env.auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrRevokedToken)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()

	input := patientInput("me@example.com")
	input.Roles = []string{"patient", "doctor"}
	input.DoctorProfile = &domain.DoctorProfile{FacilityID: "fac-1"}
	resp, err := env.auth.Register(ctx, input)
	require.NoError(t, err)

	session, err := env.auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)

	me, err := env.auth.Me(ctx, session.User)
	require.NoError(t, err)
	assert.NotNil(t, me.Patient)
	require.NotNil(t, me.Doctor)
	assert.Equal(t, "fac-1", me.Doctor.FacilityID)
	assert.Nil(t, me.Staff)
}
