package services

import (
	"context"
	"errors"
	"time"

	"github.com/zealous/backend/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrEmptyNote        = errors.New("note text is empty")
)

// UserStore persists observed chat identities.
type UserStore interface {
	// UpsertActivity records activity for a user, creating the profile on
	// first sight and bumping last_seen otherwise.
	UpsertActivity(ctx context.Context, userID, displayName string, now time.Time) error
	Get(ctx context.Context, userID string) (models.User, error)
	// DisplayNames maps every known user id to its display name.
	DisplayNames(ctx context.Context) (map[string]string, error)
}

// PunishmentStore persists one punishment record per user. The store is the
// single source of truth: callers re-read, mutate a copy, and write back.
type PunishmentStore interface {
	// Get returns the user's record, or the default record if none exists yet.
	Get(ctx context.Context, userID string) (models.PunishmentRecord, error)
	Save(ctx context.Context, rec models.PunishmentRecord) error
	// Clear resets the user's record to defaults.
	Clear(ctx context.Context, userID string) error
}

// ReminderStore persists scheduled reminders.
type ReminderStore interface {
	Add(ctx context.Context, userID, text string, remindAt, now time.Time) (int64, error)
	ListForUser(ctx context.Context, userID string) ([]models.Reminder, error)
	// DueNow returns every reminder with remind_at <= now, ascending by due time.
	DueNow(ctx context.Context, now time.Time) ([]models.Reminder, error)
	// Remove deletes the reminder if it exists and belongs to userID.
	Remove(ctx context.Context, id int64, userID string) error
}

// NoteStore persists per-user notes.
type NoteStore interface {
	Add(ctx context.Context, userID, text string, now time.Time) (models.Note, error)
	ListForUser(ctx context.Context, userID string) ([]models.Note, error)
	// Delete removes the note if it exists and belongs to userID.
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// MessageLogStore records counted message traffic and answers the statistics
// queries built on it.
type MessageLogStore interface {
	Record(ctx context.Context, userID string, now time.Time) error
	CountForUser(ctx context.Context, userID string) (int64, error)
	// Leaderboard returns the top senders since the given instant.
	Leaderboard(ctx context.Context, since time.Time, limit int) ([]models.LeaderboardEntry, error)
	// Ranking returns every sender ordered by total message count, descending.
	Ranking(ctx context.Context) ([]models.LeaderboardEntry, error)
}
