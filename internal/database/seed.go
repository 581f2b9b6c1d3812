package database

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
)

// defaultQuestions is the CORE-10 item set the practice uses for check-ins.
var defaultQuestions = []string{
	"I have felt tense, anxious, or nervous.",
	"I have felt I have someone to turn to for support when needed.",
	"I have felt able to cope when things go wrong.",
	"Talking to people has felt too much for me.",
	"I have felt panic or terror.",
	"I made plans to end my life.",
	"I have had difficulty getting to sleep or staying asleep.",
	"I have felt despairing or helpless.",
	"I have felt unhappy.",
	"Unwanted images or memories have been distressing me.",
}

// SeedQuestions replaces the questions table with the default set when it
// holds fewer items than expected. Existing complete sets are left alone.
func SeedQuestions(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Question{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count >= int64(len(defaultQuestions)) {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}
		for i, text := range defaultQuestions {
			q := models.Question{
				ID:       uuid.NewString(),
				Text:     text,
				Position: i + 1,
			}
			if err := tx.Create(&q).Error; err != nil {
				return fmt.Errorf("failed to seed question %d: %w", i+1, err)
			}
		}
		log.Info("Questionnaire seeded", zap.Int("questions", len(defaultQuestions)))
		return nil
	})
}
