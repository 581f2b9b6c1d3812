package repository

import (
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// GormCheckinRepository is a GORM implementation of CheckinRepository
type GormCheckinRepository struct {
	db *gorm.DB
}

// NewCheckinRepository creates a new CheckinRepository
func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &GormCheckinRepository{db: db}
}

// CreateSession stores a session together with its response index rows in
// one transaction. The summary on the session row is authoritative; the
// rows are a query index.
func (r *GormCheckinRepository) CreateSession(session *models.CheckinSession, responses []models.SessionResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range responses {
			if err := tx.Create(&responses[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindSessionByID finds a session by ID in the given namespace
func (r *GormCheckinRepository) FindSessionByID(ns storage.Namespace, id string) (*models.CheckinSession, error) {
	var session models.CheckinSession
	if err := r.db.Table(ns.Sessions()).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessionsByUser lists a user's sessions ordered by timestamp ascending
func (r *GormCheckinRepository) ListSessionsByUser(ns storage.Namespace, userID string) ([]models.CheckinSession, error) {
	var sessions []models.CheckinSession
	err := r.db.Table(ns.Sessions()).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListResponsesByUser lists a user's indexed response rows
func (r *GormCheckinRepository) ListResponsesByUser(ns storage.Namespace, userID string) ([]models.SessionResponse, error) {
	var responses []models.SessionResponse
	err := r.db.Table(ns.Responses()).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ReplaceResponseIndex deletes a user's active response rows and writes the
// rebuilt set in one transaction
func (r *GormCheckinRepository) ReplaceResponseIndex(userID string, responses []models.SessionResponse) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.SessionResponse{}).Error; err != nil {
			return err
		}
		for i := range responses {
			if err := tx.Create(&responses[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
