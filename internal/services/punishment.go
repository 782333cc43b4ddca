package services

import (
	"time"

	"github.com/zealous/backend/internal/models"
)

const (
	// A user is muted when their strike count reaches this bound.
	strikeThreshold = 3

	shortMuteDuration = 5 * time.Minute
	longMuteDuration  = time.Hour
)

// ViolationOutcome is the result of scoring one violation: the new record plus
// what, if anything, was applied.
type ViolationOutcome struct {
	Record       models.PunishmentRecord
	StrikeCount  int
	Muted        bool
	MuteDuration time.Duration
}

// ExpireCheck lifts an expired mute. Returns the (possibly updated) record and
// whether a sentence ended.
//
// Expiry of a sentence at the LongMuteServed tier resets the whole ladder:
// strikes to zero and the tier back to ShortMute, with only TotalMutesServed
// preserved. Expiry at earlier tiers clears the mute and strikes but keeps the
// tier, so the next threshold breach escalates.
func ExpireCheck(rec models.PunishmentRecord, now time.Time) (models.PunishmentRecord, bool) {
	if !rec.IsMuted || rec.MuteUntil == nil || !now.After(*rec.MuteUntil) {
		return rec, false
	}

	if rec.NextMuteType == models.LongMuteServed {
		cleared := models.DefaultPunishmentRecord(rec.UserID)
		cleared.TotalMutesServed = rec.TotalMutesServed
		return cleared, true
	}

	rec.IsMuted = false
	rec.MuteUntil = nil
	rec.StrikeCount = 0
	return rec, true
}

// ApplyViolation scores one violation against a record that is not muted (the
// caller routes muted users through message suppression instead). The strike
// count increments; at the threshold a mute is applied for the duration of the
// current tier and the tier advances.
//
// A user already at LongMuteServed who reaches the threshold again serves
// another long mute at the same tier; the ladder only resets when a
// LongMuteServed sentence expires.
func ApplyViolation(rec models.PunishmentRecord, now time.Time) ViolationOutcome {
	rec.StrikeCount++
	out := ViolationOutcome{StrikeCount: rec.StrikeCount}

	if rec.StrikeCount >= strikeThreshold {
		var d time.Duration
		switch rec.NextMuteType {
		case models.ShortMute:
			d = shortMuteDuration
			rec.NextMuteType = models.LongMute
		case models.LongMute:
			d = longMuteDuration
			rec.NextMuteType = models.LongMuteServed
		case models.LongMuteServed:
			// Terminal tier: repeat the long mute.
			d = longMuteDuration
		}

		until := now.Add(d)
		rec.IsMuted = true
		rec.MuteUntil = &until
		rec.TotalMutesServed++
		rec.StrikeCount = 0

		out.Muted = true
		out.MuteDuration = d
	}

	out.Record = rec
	return out
}
