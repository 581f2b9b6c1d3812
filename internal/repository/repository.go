package repository

import (
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// UserRepository defines the interface for profile data access. Reads take
// an explicit namespace; writes other than migration bookkeeping always
// target the active namespace, because archived profiles are only ever
// touched by the migrator.
type UserRepository interface {
	// Create creates a new active user
	Create(user *models.User) error

	// FindByID finds a user by ID in the given namespace
	FindByID(ns storage.Namespace, id string) (*models.User, error)

	// FindByEmail finds a user by email in the given namespace
	FindByEmail(ns storage.Namespace, email string) (*models.User, error)

	// ListByRole lists active users with the given role
	ListByRole(role models.Role) ([]models.User, error)

	// ListClients lists all client-role users in the given namespace.
	// Every archived profile is a client by construction.
	ListClients(ns storage.Namespace) ([]models.User, error)

	// ListClientsByClinician lists active clients assigned to a clinician
	ListClientsByClinician(clinicianID string) ([]models.User, error)

	// ListAll lists every active user
	ListAll() ([]models.User, error)

	// Update updates an active user
	Update(user *models.User) error

	// UpdateMigrationStatus sets the migration status on a profile
	UpdateMigrationStatus(ns storage.Namespace, id string, status models.MigrationStatus) error

	// ClearAssignedClinician nulls assigned_clinician_id for every active
	// client of the given clinician, returning the affected client ids
	ClearAssignedClinician(clinicianID string) ([]string, error)

	// Delete removes an active user
	Delete(id string) error
}

// CheckinRepository defines the interface for check-in session data access
type CheckinRepository interface {
	// CreateSession stores a session together with its response index rows
	// in one transaction
	CreateSession(session *models.CheckinSession, responses []models.SessionResponse) error

	// FindSessionByID finds a session by ID in the given namespace
	FindSessionByID(ns storage.Namespace, id string) (*models.CheckinSession, error)

	// ListSessionsByUser lists a user's sessions ordered by timestamp ascending
	ListSessionsByUser(ns storage.Namespace, userID string) ([]models.CheckinSession, error)

	// ListResponsesByUser lists a user's indexed response rows
	ListResponsesByUser(ns storage.Namespace, userID string) ([]models.SessionResponse, error)

	// ReplaceResponseIndex deletes a user's active response rows and writes
	// the given rebuilt set in one transaction
	ReplaceResponseIndex(userID string, responses []models.SessionResponse) error
}

// DeviceSessionRepository defines the interface for login session records
type DeviceSessionRepository interface {
	// Create stores a device session issued at login
	Create(session *models.DeviceSession) error

	// Exists reports whether a device token is still live
	Exists(deviceToken string) (bool, error)

	// Delete revokes a single device session
	Delete(deviceToken string) error

	// DeleteAllForUser revokes every device session of a user
	DeleteAllForUser(userID string) error
}

// InviteRepository defines the interface for invite code data access
type InviteRepository interface {
	// Create stores a new invite
	Create(invite *models.Invite) error

	// FindByCode finds an invite by its code
	FindByCode(code string) (*models.Invite, error)

	// MarkUsed flips an invite to used; the transition is one-way
	MarkUsed(code string) error
}

// QuestionRepository defines the interface for questionnaire items
type QuestionRepository interface {
	// List returns all questions ordered by position
	List() ([]models.Question, error)
}
