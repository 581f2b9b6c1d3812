package repository

import (
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
)

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create stores a new invite
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByCode finds an invite by its code
func (r *GormInviteRepository) FindByCode(code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("invite_code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkUsed flips an invite to used
func (r *GormInviteRepository) MarkUsed(code string) error {
	return r.db.Model(&models.Invite{}).
		Where("invite_code = ?", code).
		Update("used", true).Error
}
