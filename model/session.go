package model

import "time"

// AuthSession is one signed-in device. Refresh tokens carry its id.
type AuthSession struct {
	SessionID  string    `bson:"session_id" json:"session_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	DeviceInfo string    `bson:"device_info" json:"device_info"`
	IPAddress  string    `bson:"ip_address" json:"ip_address"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	LastSeenAt time.Time `bson:"last_seen_at" json:"last_seen_at"`
	IsActive   bool      `bson:"is_active" json:"is_active"`
}
