package models

import "time"

// User is a chat identity observed by the moderation pipeline. Users are
// created on first activity and never deleted.
type User struct {
	ID          string    `json:"user_id" bson:"user_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	FirstSeen   time.Time `json:"first_seen" bson:"first_seen"`
	LastSeen    time.Time `json:"last_seen" bson:"last_seen"`
}
