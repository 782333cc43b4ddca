package models

import "time"

// Reminder is a user-scheduled note delivered back to its owner once its due
// time has passed. Delivery is at-most-once: a reminder is removed from the
// store whether or not the delivery attempt succeeds.
type Reminder struct {
	ID        int64     `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"reminder_text" bson:"reminder_text"`
	RemindAt  time.Time `json:"remind_at" bson:"remind_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// DeliveryAttempt records the outcome of one reminder delivery during a tick.
type DeliveryAttempt struct {
	Reminder  Reminder `json:"reminder"`
	Delivered bool     `json:"delivered"`
	Error     string   `json:"error,omitempty"`
}
