package repository

import (
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
)

// GormQuestionRepository is a GORM implementation of QuestionRepository
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &GormQuestionRepository{db: db}
}

// List returns all questions ordered by position
func (r *GormQuestionRepository) List() ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.Order("position ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
