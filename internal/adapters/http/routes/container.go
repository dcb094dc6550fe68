package routes

import (
	"log"

	"arogya-records/internal/adapters/persistence/repositories"
	"arogya-records/internal/config"
	"arogya-records/internal/core/services"
	"arogya-records/internal/pkg/jwt"
	"arogya-records/internal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds the wired services shared by routes and background jobs
type Container struct {
	Store       repositories.Store
	Redis       *redis.Client
	Revocations *services.RevocationService
	Auth        *services.AuthService
	Patients    *services.PatientService
	Users       *services.UserService
}

// NewContainer builds repositories and services. rdb is optional; when set
// revoked tokens are kept in Redis instead of the revoked_tokens table.
func NewContainer(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*Container, error) {
	// Initialize repositories
	store := repositories.NewStore(db)

	var revocationList repositories.RevocationList
	if rdb != nil {
		revocationList = repositories.NewRedisRevocationList(rdb, "")
		log.Println("🔐 Revocation list: redis")
	} else {
		revocationList = repositories.NewRevokedTokenRepository(db)
		log.Println("🔐 Revocation list: database")
	}

	// Initialize services
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL(), cfg.JWT.Leeway())
	if err != nil {
		return nil, err
	}

	v := validator.New(cfg.PhoneRegion)
	revocations := services.NewRevocationService(revocationList)

	authService, err := services.NewAuthService(store, tokens, revocations, v, services.AuthOptions{
		BcryptCost:        cfg.JWT.BcryptCost,
		EnforceRevocation: cfg.Revocation.Enforce,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Store:       store,
		Redis:       rdb,
		Revocations: revocations,
		Auth:        authService,
		Patients:    services.NewPatientService(store, v),
		Users:       services.NewUserService(store),
	}, nil
}
