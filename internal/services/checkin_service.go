package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/scoring"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

var (
	ErrInvalidResponses = errors.New("responses must be a non-empty list with question_id and response_value")
	ErrNoResponses      = errors.New("no responses available for this user")
	ErrSessionNotFound  = errors.New("session not found")
)

// DefaultQuestionnaireID labels submissions from the practice's standard
// check-in questionnaire.
const DefaultQuestionnaireID = "core-10"

// CheckinService handles questionnaire submission and retrieval.
type CheckinService struct {
	checkinRepo  repository.CheckinRepository
	questionRepo repository.QuestionRepository
	access       *AccessService
	log          *zap.Logger
}

// NewCheckinService creates a new CheckinService.
func NewCheckinService(
	checkinRepo repository.CheckinRepository,
	questionRepo repository.QuestionRepository,
	access *AccessService,
	log *zap.Logger,
) *CheckinService {
	return &CheckinService{
		checkinRepo:  checkinRepo,
		questionRepo: questionRepo,
		access:       access,
		log:          log,
	}
}

// Questions returns the questionnaire items in display order.
func (s *CheckinService) Questions() ([]models.Question, error) {
	questions, err := s.questionRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// SubmitInput is one questionnaire submission from a logged-in client.
type SubmitInput struct {
	UserID          string
	QuestionnaireID string
	Responses       []models.SummaryResponse
}

// Submit stores a new check-in session. The summary list on the session is
// the authoritative record; coercible values are additionally written to
// the per-question index.
func (s *CheckinService) Submit(input SubmitInput) (*models.CheckinSession, error) {
	if len(input.Responses) == 0 {
		return nil, ErrInvalidResponses
	}
	for _, r := range input.Responses {
		if r.QuestionID == "" || r.ResponseValue == nil {
			return nil, ErrInvalidResponses
		}
	}

	questionnaireID := input.QuestionnaireID
	if questionnaireID == "" {
		questionnaireID = DefaultQuestionnaireID
	}

	now := time.Now().UTC()
	session := &models.CheckinSession{
		ID:               uuid.NewString(),
		UserID:           input.UserID,
		QuestionnaireID:  questionnaireID,
		Timestamp:        now,
		SummaryResponses: input.Responses,
		CreatedAt:        now,
	}

	rows, dropped := indexRows(session)
	if dropped > 0 {
		s.log.Warn("Submission carried non-numeric response values",
			zap.String("user_id", input.UserID),
			zap.String("session_id", session.ID),
			zap.Int("dropped", dropped))
	}

	if err := s.checkinRepo.CreateSession(session, rows); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// PastResponseEntry is one answered question flattened out of a session,
// the shape the history views consume.
type PastResponseEntry struct {
	SessionID     string    `json:"session_id"`
	QuestionID    string    `json:"question_id"`
	ResponseValue any       `json:"response_value"`
	Timestamp     time.Time `json:"timestamp"`
}

// PastResponses returns every answered question of the target user,
// ordered by session time. Access is resolved through the caller's scope.
func (s *CheckinService) PastResponses(identity Identity, targetUserID string, ns storage.Namespace) ([]PastResponseEntry, error) {
	target, err := s.access.ResolveClientScope(identity, targetUserID, ns)
	if err != nil {
		return nil, err
	}

	sessions, err := s.checkinRepo.ListSessionsByUser(ns, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var entries []PastResponseEntry
	for _, sess := range sessions {
		for _, r := range sess.SummaryResponses {
			entries = append(entries, PastResponseEntry{
				SessionID:     sess.ID,
				QuestionID:    r.QuestionID,
				ResponseValue: r.ResponseValue,
				Timestamp:     sess.Timestamp,
			})
		}
	}
	if len(entries) == 0 {
		return nil, ErrNoResponses
	}
	return entries, nil
}

// SessionDetails returns one session's answers, enforcing that the caller
// may view the owning client.
func (s *CheckinService) SessionDetails(identity Identity, sessionID string, ns storage.Namespace) ([]PastResponseEntry, error) {
	session, err := s.checkinRepo.FindSessionByID(ns, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if _, err := s.access.ResolveClientScope(identity, session.UserID, ns); err != nil {
		return nil, err
	}

	entries := make([]PastResponseEntry, 0, len(session.SummaryResponses))
	for _, r := range session.SummaryResponses {
		entries = append(entries, PastResponseEntry{
			SessionID:     session.ID,
			QuestionID:    r.QuestionID,
			ResponseValue: r.ResponseValue,
			Timestamp:     session.Timestamp,
		})
	}
	return entries, nil
}

// RebuildResponseIndex regenerates a user's per-question index rows from
// the authoritative session summaries, repairing any drift.
func (s *CheckinService) RebuildResponseIndex(userID string) (int, error) {
	sessions, err := s.checkinRepo.ListSessionsByUser(storage.Active, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	var rows []models.SessionResponse
	for i := range sessions {
		r, dropped := indexRows(&sessions[i])
		if dropped > 0 {
			s.log.Warn("Index rebuild skipped non-numeric values",
				zap.String("session_id", sessions[i].ID),
				zap.Int("dropped", dropped))
		}
		rows = append(rows, r...)
	}

	if err := s.checkinRepo.ReplaceResponseIndex(userID, rows); err != nil {
		return 0, fmt.Errorf("failed to replace response index: %w", err)
	}
	return len(rows), nil
}

// indexRows derives per-question index rows from a session summary. Values
// that fail numeric coercion are skipped and counted.
func indexRows(session *models.CheckinSession) ([]models.SessionResponse, int) {
	rows := make([]models.SessionResponse, 0, len(session.SummaryResponses))
	dropped := 0
	for _, r := range session.SummaryResponses {
		value, ok := scoring.Coerce(r.ResponseValue)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, models.SessionResponse{
			ID:            uuid.NewString(),
			SessionID:     session.ID,
			UserID:        session.UserID,
			QuestionID:    r.QuestionID,
			ResponseValue: value,
			Timestamp:     session.Timestamp,
		})
	}
	return rows, dropped
}
