package models

// Question is one item of the check-in questionnaire, ordered by Position.
type Question struct {
	ID       string `gorm:"type:uuid;primarykey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Position int    `gorm:"not null" json:"position"`
}
