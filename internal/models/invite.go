package models

import "time"

// Invite is a one-time-use code gating clinician and admin registration.
// Used only ever transitions false to true.
type Invite struct {
	InviteCode string    `gorm:"type:varchar(50);primarykey" json:"invite_code"`
	Role       Role      `gorm:"type:varchar(20);not null" json:"role"`
	Used       bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt  time.Time `json:"created_at"`
}
