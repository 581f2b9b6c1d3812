package repository

import (
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new active user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID in the given namespace
func (r *GormUserRepository) FindByID(ns storage.Namespace, id string) (*models.User, error) {
	var user models.User
	if err := r.db.Table(ns.Users()).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email in the given namespace
func (r *GormUserRepository) FindByEmail(ns storage.Namespace, email string) (*models.User, error) {
	var user models.User
	if err := r.db.Table(ns.Users()).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole lists active users with the given role
func (r *GormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListClients lists all client-role users in the given namespace
func (r *GormUserRepository) ListClients(ns storage.Namespace) ([]models.User, error) {
	var users []models.User
	q := r.db.Table(ns.Users())
	if ns == storage.Active {
		q = q.Where("role = ?", models.RoleClient)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListClientsByClinician lists active clients assigned to a clinician
func (r *GormUserRepository) ListClientsByClinician(clinicianID string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("role = ? AND assigned_clinician_id = ?", models.RoleClient, clinicianID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListAll lists every active user
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates an active user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateMigrationStatus sets the migration status on a profile
func (r *GormUserRepository) UpdateMigrationStatus(ns storage.Namespace, id string, status models.MigrationStatus) error {
	return r.db.Table(ns.Users()).
		Where("id = ?", id).
		Update("migration_status", status).Error
}

// ClearAssignedClinician nulls assigned_clinician_id for every active
// client of the given clinician, returning the affected client ids
func (r *GormUserRepository) ClearAssignedClinician(clinicianID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("assigned_clinician_id = ?", clinicianID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	err = r.db.Model(&models.User{}).
		Where("assigned_clinician_id = ?", clinicianID).
		Update("assigned_clinician_id", nil).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes an active user
func (r *GormUserRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}
