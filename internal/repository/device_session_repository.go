package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
)

// GormDeviceSessionRepository is a GORM implementation of DeviceSessionRepository
type GormDeviceSessionRepository struct {
	db *gorm.DB
}

// NewDeviceSessionRepository creates a new DeviceSessionRepository
func NewDeviceSessionRepository(db *gorm.DB) DeviceSessionRepository {
	return &GormDeviceSessionRepository{db: db}
}

// Create stores a device session issued at login
func (r *GormDeviceSessionRepository) Create(session *models.DeviceSession) error {
	return r.db.Create(session).Error
}

// Exists reports whether a device token is still live
func (r *GormDeviceSessionRepository) Exists(deviceToken string) (bool, error) {
	var session models.DeviceSession
	err := r.db.Where("device_token = ?", deviceToken).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete revokes a single device session
func (r *GormDeviceSessionRepository) Delete(deviceToken string) error {
	return r.db.Where("device_token = ?", deviceToken).Delete(&models.DeviceSession{}).Error
}

// DeleteAllForUser revokes every device session of a user
func (r *GormDeviceSessionRepository) DeleteAllForUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.DeviceSession{}).Error
}
