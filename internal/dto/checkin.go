package dto

import (
	"time"

	"github.com/headway-clinic/checkin-api/internal/models"
)

// SubmitResponsesRequest is the body of a questionnaire submission.
type SubmitResponsesRequest struct {
	QuestionnaireID string              `json:"questionnaire_id"`
	Responses       []SubmittedResponse `json:"responses" binding:"required"`
}

// SubmittedResponse is one answered question in a submission. Values are
// loosely typed on the wire; scoring coerces them later.
type SubmittedResponse struct {
	QuestionID    string `json:"question_id" binding:"required"`
	ResponseValue any    `json:"response_value" binding:"required"`
}

// ToSummaryResponses converts submitted answers to the stored summary form.
func (r *SubmitResponsesRequest) ToSummaryResponses() models.SummaryResponses {
	out := make(models.SummaryResponses, 0, len(r.Responses))
	for _, resp := range r.Responses {
		out = append(out, models.SummaryResponse{
			QuestionID:    resp.QuestionID,
			ResponseValue: resp.ResponseValue,
		})
	}
	return out
}

// SubmitResponsesResponse confirms a stored submission.
type SubmitResponsesResponse struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// QuestionResponse is one questionnaire item.
type QuestionResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// ToQuestionResponses converts questionnaire items.
func ToQuestionResponses(questions []models.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{ID: q.ID, Text: q.Text, Position: q.Position})
	}
	return out
}
