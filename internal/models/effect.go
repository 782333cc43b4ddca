package models

import "time"

// EffectKind enumerates the side effects the moderation pipeline can decide on.
type EffectKind string

const (
	// EffectDeleteMessage removes the offending (or suppressed) message.
	EffectDeleteMessage EffectKind = "delete_message"
	// EffectWarnEphemeral posts a short-lived warning with the updated strike count.
	EffectWarnEphemeral EffectKind = "warn_ephemeral"
	// EffectMuteApplied posts a short-lived "punishment applied" notice to the room.
	EffectMuteApplied EffectKind = "mute_applied"
	// EffectMuteNotice sends the muted user a direct, permanent notice.
	EffectMuteNotice EffectKind = "mute_notice"
	// EffectMuteStatus posts a short-lived remaining-sentence notice for a muted user.
	EffectMuteStatus EffectKind = "mute_status"
	// EffectPunishmentEnded tells the user their sentence is over.
	EffectPunishmentEnded EffectKind = "punishment_ended"
)

// Effect is one decided side effect. Effects are computed first and executed
// only after the punishment record write has committed.
type Effect struct {
	Kind      EffectKind    `json:"kind"`
	UserID    string        `json:"user_id"`
	ChatID    string        `json:"chat_id,omitempty"`
	MessageID string        `json:"message_id,omitempty"`
	Text      string        `json:"text,omitempty"`
	TTL       time.Duration `json:"ttl,omitempty"` // nonzero means auto-delete after TTL
}
