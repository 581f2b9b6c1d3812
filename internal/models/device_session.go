package models

import "time"

// DeviceSession is the server-side record proving a bearer token is still
// valid. One row per login; deleting the row revokes the token immediately,
// independent of its expiry.
type DeviceSession struct {
	DeviceToken string    `gorm:"type:uuid;primarykey" json:"device_token"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
