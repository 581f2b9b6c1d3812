package dto

import (
	"time"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/services"
)

// UserResponse is the public shape of a profile. Password hashes and
// migration bookkeeping never leave the service.
type UserResponse struct {
	ID                  string    `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	AssignedClinicianID *string   `json:"assigned_clinician_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ToUserResponse converts a User model to its public shape.
func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		FullName:            u.FullName(),
		Email:               u.Email,
		Role:                string(u.Role),
		AssignedClinicianID: u.AssignedClinicianID,
		CreatedAt:           u.CreatedAt,
	}
}

// ToUserResponses converts a slice of User models.
func ToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}

// ClientRecordResponse is a client search row tagged with where the record
// lives, so merged active/archived listings stay distinguishable.
type ClientRecordResponse struct {
	UserResponse
	Status string `json:"status"`
}

// ToClientRecordResponses converts merged search results.
func ToClientRecordResponses(records []services.ClientRecord) []ClientRecordResponse {
	out := make([]ClientRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ClientRecordResponse{
			UserResponse: ToUserResponse(r.User),
			Status:       r.Namespace.String(),
		})
	}
	return out
}
