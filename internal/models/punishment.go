package models

import "time"

// MuteType is the escalation tier that applies on the *next* strike-threshold
// breach. Stored as short wire strings.
type MuteType string

const (
	// ShortMute: the next mute will be the short (5 minute) one.
	ShortMute MuteType = "5_min"
	// LongMute: the next mute will be the long (1 hour) one.
	LongMute MuteType = "1_hr"
	// LongMuteServed: the user has been through the long mute. Expiry of a
	// sentence at this tier resets the ladder.
	LongMuteServed MuteType = "1_hr_served"
)

// Valid reports whether t is one of the known tiers.
func (t MuteType) Valid() bool {
	switch t {
	case ShortMute, LongMute, LongMuteServed:
		return true
	}
	return false
}

// PunishmentRecord tracks violations and mute state for one user. One record
// per user, created lazily with defaults on first access.
//
// Invariant: IsMuted implies MuteUntil is non-nil. StrikeCount is reset to zero
// whenever a mute is applied or the record is cleared.
type PunishmentRecord struct {
	UserID           string     `json:"user_id" bson:"user_id"`
	StrikeCount      int        `json:"strike_count" bson:"strike_count"`
	IsMuted          bool       `json:"is_muted" bson:"is_muted"`
	MuteUntil        *time.Time `json:"mute_until,omitempty" bson:"mute_until,omitempty"`
	NextMuteType     MuteType   `json:"next_mute_type" bson:"next_mute_type"`
	TotalMutesServed int        `json:"total_mutes_served" bson:"total_mutes_served"`
}

// DefaultPunishmentRecord returns the record a user has before any violation.
func DefaultPunishmentRecord(userID string) PunishmentRecord {
	return PunishmentRecord{
		UserID:       userID,
		NextMuteType: ShortMute,
	}
}

// MutedAt reports whether the record is muted and the sentence has not yet
// expired at the given instant.
func (p PunishmentRecord) MutedAt(now time.Time) bool {
	return p.IsMuted && p.MuteUntil != nil && !now.After(*p.MuteUntil)
}
