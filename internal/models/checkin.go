package models

import "time"

// SummaryResponse is one answered question within a check-in session.
// ResponseValue is kept loosely typed: historical submissions stored
// numbers, numeric strings and the occasional junk value, and scoring
// decides what to do with each.
type SummaryResponse struct {
	QuestionID    string `json:"question_id"`
	ResponseValue any    `json:"response_value"`
}

type SummaryResponses []SummaryResponse

// CheckinSession is one completed questionnaire submission by a client.
// Not to be confused with a login device session. SummaryResponses is the
// authoritative record of the submission; the session_responses table is a
// per-question index rebuilt from it on demand.
type CheckinSession struct {
	ID               string           `gorm:"type:uuid;primarykey" json:"session_id"`
	UserID           string           `gorm:"type:uuid;index;not null" json:"user_id"`
	QuestionnaireID  string           `gorm:"type:varchar(50);not null" json:"questionnaire_id"`
	Timestamp        time.Time        `gorm:"index;not null" json:"timestamp"`
	SummaryResponses SummaryResponses `gorm:"serializer:json" json:"summary_responses"`
	CreatedAt        time.Time        `json:"created_at"`
}

// SessionResponse is a single-question row indexed from a session's
// summary. Only values that coerce to a number are indexed.
type SessionResponse struct {
	ID            string    `gorm:"type:uuid;primarykey" json:"id"`
	SessionID     string    `gorm:"type:uuid;index;not null" json:"session_id"`
	UserID        string    `gorm:"type:uuid;index;not null" json:"user_id"`
	QuestionID    string    `gorm:"type:varchar(50);not null" json:"question_id"`
	ResponseValue float64   `gorm:"not null" json:"response_value"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}
