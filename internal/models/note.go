package models

import "time"

// Note is a private free-text note a user keeps for themselves.
type Note struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"note_text" bson:"note_text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
