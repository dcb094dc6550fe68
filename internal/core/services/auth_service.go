package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/jwt"
	"arogya-records/internal/pkg/password"
	"arogya-records/internal/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthOptions tunes the auth service
type AuthOptions struct {
	// BcryptCost is the cost used for new password hashes
	BcryptCost int
	// EnforceRevocation makes Authenticate reject tokens recorded at logout.
	// Off by default: logout then only revokes the presented token for
	// explicit revocation lookups.
	EnforceRevocation bool
}

// AuthService handles registration, login, logout and session verification
type AuthService struct {
	store       repositories.Store
	tokens      *jwt.Manager
	revocations *RevocationService
	validator   *validator.Validator
	opts        AuthOptions
	dummyHash   string
}

// NewAuthService creates a new auth service
func NewAuthService(
	store repositories.Store,
	tokens *jwt.Manager,
	revocations *RevocationService,
	v *validator.Validator,
	opts AuthOptions,
) (*AuthService, error) {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = password.DefaultCost
	}

	// compared against when the email is unknown so both login failures cost the same
	dummyHash, err := password.HashWithCost(uuid.NewString(), opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		store:       store,
		tokens:      tokens,
		revocations: revocations,
		validator:   v,
		opts:        opts,
		dummyHash:   dummyHash,
	}, nil
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email          string                 `json:"email" validate:"required,email,max=191"`
	Password       string                 `json:"password" validate:"required,min=8,max=72"`
	Name           string                 `json:"name" validate:"required,max=100"`
	Age            *int                   `json:"age" validate:"omitempty,min=0,max=150"`
	Phone          *string                `json:"phone" validate:"omitempty,phone"`
	Gender         string                 `json:"gender" validate:"max=20"`
	Roles          []string               `json:"roles" validate:"required,min=1,dive,required"`
	PatientProfile *domain.PatientProfile `json:"patientProfile"`
	DoctorProfile  *domain.DoctorProfile  `json:"doctorProfile"`
	StaffProfile   *domain.StaffProfile   `json:"staffProfile"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User      *models.UserResponse `json:"user"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// Session is a verified request identity
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a user, its role associations and role profiles in one
// transaction, then issues a session token
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	// 1. Validate input
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var phone *string
	if input.Phone != nil {
		normalized, err := s.validator.NormalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		phone = &normalized
	}

	// 2. Hash password (outside the transaction, bcrypt is slow)
	hashedPassword, err := password.HashWithCost(input.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	input.Password = ""

	roleNames := uniqueRoleNames(input.Roles)
	user := &models.User{
		ID:       uuid.NewString(),
		Email:    input.Email,
		Password: hashedPassword,
		Name:     input.Name,
		Age:      input.Age,
		Phone:    phone,
		Gender:   strings.TrimSpace(input.Gender),
	}

	// 3. Write everything in one transaction
	err = s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		exists, err := tx.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateIdentity
		}

		roles, err := tx.Roles().FindByNames(ctx, roleNames)
		if err != nil {
			return err
		}
		if len(roles) != len(roleNames) {
			return domain.ErrInvalidRole
		}

		profiles, err := buildProfiles(roleNames, input)
		if err != nil {
			return err
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateIdentity
			}
			return err
		}
		if err := tx.Users().AddRoles(ctx, user, roles); err != nil {
			return err
		}
		for _, profile := range profiles {
			if err := tx.Profiles().Create(ctx, user.ID, profile); err != nil {
				return err
			}
		}

		user.Roles = roles
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		log.Printf("❌ Registration failed for %s: %v", user.Email, err)
		return nil, fmt.Errorf("register user: %w", err)
	}

	// 4. Issue token
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Printf("✅ User registered: %s (roles: %s)", user.Email, strings.Join(roleNames, ","))

	return &AuthResponse{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	input.Email = normalizeEmail(input.Email)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.store.Users().GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.Verify(input.Password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Issue token
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout records the token in the revocation list. An empty token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, token)
}

// Authenticate verifies a token and loads its user with roles
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	// 1. Signature and expiry
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, tokenError(err)
	}

	// 2. Revocation (opt-in)
	if s.opts.EnforceRevocation {
		revoked, err := s.revocations.IsRevoked(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrRevokedToken
		}
	}

	// 3. User must still exist
	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Valid token for missing user: %s", claims.UserID)
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// MeResponse is the current user with every profile they own
type MeResponse struct {
	User    *models.UserResponse `json:"user"`
	Patient *models.Patient      `json:"patient,omitempty"`
	Doctor  *models.Doctor       `json:"doctor,omitempty"`
	Staff   *models.Staff        `json:"staff,omitempty"`
}

// Me returns the session user with the profiles matching their roles
func (s *AuthService) Me(ctx context.Context, user *models.User) (*MeResponse, error) {
	resp := &MeResponse{User: user.ToResponse()}
	profiles := s.store.Profiles()

	for _, role := range user.RoleNames() {
		var err error
		switch domain.Role(role) {
		case domain.RolePatient:
			resp.Patient, err = profiles.GetPatient(ctx, user.ID)
		case domain.RoleDoctor:
			resp.Doctor, err = profiles.GetDoctor(ctx, user.ID)
		case domain.RoleStaff:
			resp.Staff, err = profiles.GetStaff(ctx, user.ID)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load %s profile: %w", role, err)
		}
	}

	return resp, nil
}

// buildProfiles returns the extension rows for the requested roles. doctor
// and staff need a facility id.
func buildProfiles(roleNames []string, input *RegisterInput) ([]domain.Profile, error) {
	var profiles []domain.Profile

	for _, name := range roleNames {
		switch domain.Role(name) {
		case domain.RolePatient:
			profile := domain.PatientProfile{}
			if input.PatientProfile != nil {
				profile = *input.PatientProfile
			}
			profiles = append(profiles, profile)
		case domain.RoleDoctor:
			if input.DoctorProfile == nil || strings.TrimSpace(input.DoctorProfile.FacilityID) == "" {
				return nil, fmt.Errorf("%w: doctorProfile.facilityId is required", domain.ErrIncompleteProfile)
			}
			profile := *input.DoctorProfile
			profile.FacilityID = strings.TrimSpace(profile.FacilityID)
			profiles = append(profiles, profile)
		case domain.RoleStaff:
			if input.StaffProfile == nil || strings.TrimSpace(input.StaffProfile.FacilityID) == "" {
				return nil, fmt.Errorf("%w: staffProfile.facilityId is required", domain.ErrIncompleteProfile)
			}
			profile := *input.StaffProfile
			profile.FacilityID = strings.TrimSpace(profile.FacilityID)
			profiles = append(profiles, profile)
		}
	}

	return profiles, nil
}

func uniqueRoleNames(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if seen[r] {
			continue
		}
		seen[r] = true
		names = append(names, r)
	}
	return names
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// tokenError maps token manager failures onto the domain taxonomy
func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrExpiredToken
	case errors.Is(err, jwt.ErrUnknownSigner):
		return domain.ErrUnknownSigner
	default:
		return domain.ErrMalformedToken
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrDuplicateIdentity) ||
		errors.Is(err, domain.ErrInvalidRole) ||
		errors.Is(err, domain.ErrIncompleteProfile) ||
		errors.Is(err, domain.ErrValidation)
}
