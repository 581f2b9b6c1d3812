package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

var (
	ErrScopeDenied    = errors.New("requested scope not permitted for role")
	ErrClientNotFound = errors.New("client not found")
)

// Identity is the verified caller: subject id and role from a validated
// token whose device session is still live.
type Identity struct {
	UserID string
	Role   models.Role
}

// Population describes the set of clients a caller may aggregate or search
// over, as resolved from their role.
type Population struct {
	// ClinicianID restricts the set to one clinician's caseload when set.
	ClinicianID string
	// IncludeArchived adds the archived namespace to the set. Only ever
	// true for admin callers, and only on explicit request.
	IncludeArchived bool
}

// AccessService maps a verified identity to the subset of client records it
// may see or mutate. Every decision switches exhaustively over the role
// set; an unknown role always denies.
type AccessService struct {
	userRepo repository.UserRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(userRepo repository.UserRepository) *AccessService {
	return &AccessService{userRepo: userRepo}
}

// ResolveClientScope checks that the identity may read targetID's records
// in the given namespace and returns the target profile. An empty targetID
// resolves to the caller itself for clients and is denied for staff roles,
// who must name a client.
func (s *AccessService) ResolveClientScope(identity Identity, targetID string, ns storage.Namespace) (*models.User, error) {
	switch identity.Role {
	case models.RoleClient:
		if targetID != "" && targetID != identity.UserID {
			return nil, ErrScopeDenied
		}
		if ns != storage.Active {
			return nil, ErrScopeDenied
		}
		return s.findClient(ns, identity.UserID)

	case models.RoleClinician:
		if targetID == "" {
			return nil, ErrScopeDenied
		}
		if ns != storage.Active {
			return nil, ErrScopeDenied
		}
		target, err := s.findClient(ns, targetID)
		if err != nil {
			return nil, err
		}
		if target.AssignedClinicianID == nil || *target.AssignedClinicianID != identity.UserID {
			return nil, ErrScopeDenied
		}
		return target, nil

	case models.RoleAdmin:
		if targetID == "" {
			return nil, ErrScopeDenied
		}
		return s.findClient(ns, targetID)

	default:
		return nil, ErrScopeDenied
	}
}

// ResolvePopulation resolves the client population the identity may run
// searches and aggregations over. Archived records join the population only
// for admins asking for them explicitly.
func (s *AccessService) ResolvePopulation(identity Identity, includeArchived bool) (Population, error) {
	switch identity.Role {
	case models.RoleClient:
		return Population{}, ErrScopeDenied

	case models.RoleClinician:
		if includeArchived {
			return Population{}, ErrScopeDenied
		}
		return Population{ClinicianID: identity.UserID}, nil

	case models.RoleAdmin:
		return Population{IncludeArchived: includeArchived}, nil

	default:
		return Population{}, ErrScopeDenied
	}
}

// AuthorizeMigration checks that the identity may archive or unarchive the
// given client profile.
func (s *AccessService) AuthorizeMigration(identity Identity, client *models.User) error {
	switch identity.Role {
	case models.RoleClient:
		return ErrScopeDenied
	case models.RoleClinician:
		if client.AssignedClinicianID == nil || *client.AssignedClinicianID != identity.UserID {
			return ErrScopeDenied
		}
		return nil
	case models.RoleAdmin:
		return nil
	default:
		return ErrScopeDenied
	}
}

func (s *AccessService) findClient(ns storage.Namespace, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ns, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// matchesNameQuery reports whether every whitespace-separated term of the
// query is a case-insensitive substring of the user's first or last name.
func matchesNameQuery(u *models.User, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}
	first := strings.ToLower(u.FirstName)
	last := strings.ToLower(u.LastName)
	for _, term := range terms {
		if !strings.Contains(first, term) && !strings.Contains(last, term) {
			return false
		}
	}
	return true
}
