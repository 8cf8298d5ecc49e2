package models

import "time"

type PresenceResponse struct {
	UserID   uint       `json:"user_id"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`
}
