package dto

import "time"

// RegisterRequest is the body of an account registration.
type RegisterRequest struct {
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required"`
	Role                string `json:"role" binding:"required"`
	InviteCode          string `json:"invite_code"`
	AssignedClinicianID string `json:"assigned_clinician_id"`
}

// LoginRequest is the body of a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued credential. The device token identifies
// this login for later revocation.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	DeviceToken string       `json:"device_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ValidateInviteRequest is the body of an invite validation check.
type ValidateInviteRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// InviteResponse describes an invite code and the role it grants.
type InviteResponse struct {
	InviteCode string `json:"invite_code"`
	Role       string `json:"role"`
}

// GenerateInviteRequest is the body of an invite generation request.
type GenerateInviteRequest struct {
	Role string `json:"role" binding:"required"`
}
