package models

import "time"

// Role is the closed set of account roles. Scope decisions switch
// exhaustively over this type; an unknown role is always denied.
type Role string

const (
	RoleClient    Role = "client"
	RoleClinician Role = "clinician"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleClinician, RoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role requires an invite code at registration.
func (r Role) Elevated() bool {
	return r == RoleClinician || r == RoleAdmin
}

// MigrationStatus records where a profile stands in the archive state
// machine. A second archive/unarchive request observes an in-progress
// status and is rejected instead of racing the migration.
type MigrationStatus string

const (
	MigrationNone        MigrationStatus = "none"
	MigrationArchiving   MigrationStatus = "archiving"
	MigrationArchived    MigrationStatus = "archived"
	MigrationUnarchiving MigrationStatus = "unarchiving"
)

type User struct {
	ID                  string          `gorm:"type:uuid;primarykey" json:"id"`
	FirstName           string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName            string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email               string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string          `gorm:"type:varchar(255);not null" json:"-"`
	Role                Role            `gorm:"type:varchar(20);not null" json:"role"`
	AssignedClinicianID *string         `gorm:"type:uuid;index" json:"assigned_clinician_id"`
	MigrationStatus     MigrationStatus `gorm:"type:varchar(20);not null;default:'none'" json:"-"`
	CreatedAt           time.Time       `json:"created_at"`
}

// FullName returns the display name used in clinician and admin listings.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
