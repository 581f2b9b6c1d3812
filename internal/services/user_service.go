package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// ClientRecord pairs a client profile with the namespace it was found in,
// so merged search results can say where each row came from.
type ClientRecord struct {
	User      *models.User
	Namespace storage.Namespace
}

// UserService covers directory lookups and account removal.
type UserService struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceSessionRepository
	log        *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, deviceRepo repository.DeviceSessionRepository, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, deviceRepo: deviceRepo, log: log}
}

// SearchUsers returns the active users visible to the caller, optionally
// filtered by name. Admins see everyone; clinicians see their caseload.
func (s *UserService) SearchUsers(identity Identity, nameQuery string) ([]models.User, error) {
	var (
		users []models.User
		err   error
	)
	switch identity.Role {
	case models.RoleAdmin:
		users, err = s.userRepo.ListAll()
	case models.RoleClinician:
		users, err = s.userRepo.ListClientsByClinician(identity.UserID)
	default:
		return nil, ErrScopeDenied
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return filterByName(users, nameQuery), nil
}

// SearchClients returns the active clients visible to the caller,
// optionally filtered by name.
func (s *UserService) SearchClients(identity Identity, nameQuery string) ([]models.User, error) {
	var (
		clients []models.User
		err     error
	)
	switch identity.Role {
	case models.RoleAdmin:
		clients, err = s.userRepo.ListClients(storage.Active)
	case models.RoleClinician:
		clients, err = s.userRepo.ListClientsByClinician(identity.UserID)
	default:
		return nil, ErrScopeDenied
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return filterByName(clients, nameQuery), nil
}

// SearchAllClients merges active and, on request, archived clients into one
// list tagged with each record's namespace. Admin only.
func (s *UserService) SearchAllClients(identity Identity, nameQuery string, includeArchived bool) ([]ClientRecord, error) {
	if identity.Role != models.RoleAdmin {
		return nil, ErrScopeDenied
	}

	active, err := s.userRepo.ListClients(storage.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to list active clients: %w", err)
	}
	records := make([]ClientRecord, 0, len(active))
	for i := range active {
		if !matchesNameQuery(&active[i], nameQuery) {
			continue
		}
		records = append(records, ClientRecord{User: &active[i], Namespace: storage.Active})
	}

	if includeArchived {
		archived, err := s.userRepo.ListClients(storage.Archived)
		if err != nil {
			return nil, fmt.Errorf("failed to list archived clients: %w", err)
		}
		for i := range archived {
			if !matchesNameQuery(&archived[i], nameQuery) {
				continue
			}
			records = append(records, ClientRecord{User: &archived[i], Namespace: storage.Archived})
		}
	}
	return records, nil
}

// UserInfo returns a profile the caller may see: clients get themselves,
// clinicians their assigned clients, admins anyone in either namespace.
func (s *UserService) UserInfo(identity Identity, targetID string, ns storage.Namespace) (*models.User, error) {
	if targetID == identity.UserID && ns == storage.Active {
		user, err := s.userRepo.FindByID(storage.Active, identity.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return user, nil
	}

	if identity.Role == models.RoleAdmin {
		user, err := s.userRepo.FindByID(ns, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return user, nil
	}

	if identity.Role == models.RoleClinician && ns == storage.Active {
		target, err := s.userRepo.FindByID(storage.Active, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if target.Role == models.RoleClient &&
			target.AssignedClinicianID != nil && *target.AssignedClinicianID == identity.UserID {
			return target, nil
		}
	}
	return nil, ErrScopeDenied
}

// Clinicians lists every active clinician.
func (s *UserService) Clinicians() ([]models.User, error) {
	clinicians, err := s.userRepo.ListByRole(models.RoleClinician)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinicians: %w", err)
	}
	return clinicians, nil
}

// Admins lists every active admin.
func (s *UserService) Admins() ([]models.User, error) {
	admins, err := s.userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// RemoveResult reports what a removal touched besides the account itself.
type RemoveResult struct {
	// UnassignedClientIDs lists clients whose clinician link was cleared
	// because their clinician was removed.
	UnassignedClientIDs []string
}

// RemoveUser deletes an active account outright. Removing a clinician also
// clears the assignment on their clients; every device session of the
// removed user is revoked.
func (s *UserService) RemoveUser(targetID string) (*RemoveResult, error) {
	target, err := s.userRepo.FindByID(storage.Active, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	result := &RemoveResult{}
	if target.Role == models.RoleClinician {
		ids, err := s.userRepo.ClearAssignedClinician(target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to unassign clients: %w", err)
		}
		result.UnassignedClientIDs = ids
	}

	if err := s.deviceRepo.DeleteAllForUser(target.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke device sessions: %w", err)
	}
	if err := s.userRepo.Delete(target.ID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("User removed",
		zap.String("user_id", target.ID),
		zap.String("role", string(target.Role)),
		zap.Int("unassigned_clients", len(result.UnassignedClientIDs)))
	return result, nil
}

func filterByName(users []models.User, query string) []models.User {
	if query == "" {
		return users
	}
	filtered := make([]models.User, 0, len(users))
	for i := range users {
		if matchesNameQuery(&users[i], query) {
			filtered = append(filtered, users[i])
		}
	}
	return filtered
}
