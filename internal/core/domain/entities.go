package domain

// Role is a named permission tag
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// KnownRoles lists the roles seeded into the store
var KnownRoles = []Role{RolePatient, RoleDoctor, RoleStaff, RoleAdmin}

// Profile is a role-specific extension of a User, stored under the user's id.
// Exactly one of PatientProfile, DoctorProfile or StaffProfile.
type Profile interface {
	Role() Role
}

// PatientProfile holds the patient extension fields, all optional
type PatientProfile struct {
	Address    *string `json:"address,omitempty" validate:"omitempty,max=255"`
	BloodGroup *string `json:"bloodGroup,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Diagnosis  *string `json:"diagnosis,omitempty" validate:"omitempty,max=2000"`
	Allergies  *string `json:"allergies,omitempty" validate:"omitempty,max=2000"`
}

func (PatientProfile) Role() Role { return RolePatient }

// DoctorProfile holds the doctor extension fields
type DoctorProfile struct {
	FacilityID     string  `json:"facilityId" validate:"max=64"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=100"`
	LicenseNumber  *string `json:"licenseNumber,omitempty" validate:"omitempty,max=64"`
}

func (DoctorProfile) Role() Role { return RoleDoctor }

// StaffProfile holds the staff extension fields
type StaffProfile struct {
	FacilityID string  `json:"facilityId" validate:"max=64"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
}

func (StaffProfile) Role() Role { return RoleStaff }
