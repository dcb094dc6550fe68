package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity Tables
// ============================================================

// User represents users table
type User struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Age       *int           `json:"age"`
	Phone     *string        `gorm:"size:32" json:"phone"`
	Gender    string         `gorm:"size:20" json:"gender"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
}

// RoleNames returns the names of the loaded roles
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role represents roles table
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// ============================================================
// Profile Tables (primary key is the owning user's id)
// ============================================================

// Patient represents patients table
type Patient struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	Address    *string   `gorm:"size:255" json:"address"`
	BloodGroup *string   `gorm:"size:10" json:"bloodGroup"`
	Diagnosis  *string   `gorm:"type:text" json:"diagnosis"`
	Allergies  *string   `gorm:"type:text" json:"allergies"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Patient) TableName() string {
	return "patients"
}

// Doctor represents doctors table
type Doctor struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	FacilityID     string    `gorm:"size:64;not null;index" json:"facilityId"`
	Specialization *string   `gorm:"size:100" json:"specialization"`
	LicenseNumber  *string   `gorm:"size:64" json:"licenseNumber"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Staff represents staff table
type Staff struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	FacilityID string    `gorm:"size:64;not null;index" json:"facilityId"`
	Position   *string   `gorm:"size:100" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Staff) TableName() string {
	return "staff"
}

// ============================================================
// Session Tables
// ============================================================

// RevokedToken represents revoked_tokens table
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	TokenHash string    `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Patient{},
		&Doctor{},
		&Staff{},
		&RevokedToken{},
	)
}
