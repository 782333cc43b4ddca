package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zealous/backend/internal/models"
)

// In-memory store implementations. They back dev mode (no MONGO_URI) and the
// unit tests; the Mongo services are the production path.

type MemoryUserService struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserService() *MemoryUserService {
	return &MemoryUserService{users: make(map[string]models.User)}
}

func (s *MemoryUserService) UpsertActivity(ctx context.Context, userID, displayName string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		u = models.User{ID: userID, FirstSeen: now}
	}
	u.DisplayName = displayName
	u.LastSeen = now
	s.users[userID] = u
	return nil
}

func (s *MemoryUserService) Get(ctx context.Context, userID string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryUserService) DisplayNames(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]string, len(s.users))
	for id, u := range s.users {
		names[id] = u.DisplayName
	}
	return names, nil
}

type MemoryPunishmentService struct {
	mu   sync.RWMutex
	recs map[string]models.PunishmentRecord
}

func NewMemoryPunishmentService() *MemoryPunishmentService {
	return &MemoryPunishmentService{recs: make(map[string]models.PunishmentRecord)}
}

func (s *MemoryPunishmentService) Get(ctx context.Context, userID string) (models.PunishmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.recs[userID]
	if !exists {
		return models.DefaultPunishmentRecord(userID), nil
	}
	return rec, nil
}

func (s *MemoryPunishmentService) Save(ctx context.Context, rec models.PunishmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.UserID] = rec
	return nil
}

func (s *MemoryPunishmentService) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, userID)
	return nil
}

type MemoryReminderService struct {
	mu        sync.RWMutex
	seq       int64
	reminders map[int64]models.Reminder
}

func NewMemoryReminderService() *MemoryReminderService {
	return &MemoryReminderService{reminders: make(map[int64]models.Reminder)}
}

func (s *MemoryReminderService) Add(ctx context.Context, userID, text string, remindAt, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.reminders[s.seq] = models.Reminder{
		ID:        s.seq,
		UserID:    userID,
		Text:      text,
		RemindAt:  remindAt,
		CreatedAt: now,
	}
	return s.seq, nil
}

func (s *MemoryReminderService) ListForUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.collect(func(r models.Reminder) bool { return r.UserID == userID }), nil
}

func (s *MemoryReminderService) DueNow(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return s.collect(func(r models.Reminder) bool { return !r.RemindAt.After(now) }), nil
}

func (s *MemoryReminderService) collect(keep func(models.Reminder) bool) []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reminder, 0)
	for _, r := range s.reminders {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

func (s *MemoryReminderService) Remove(ctx context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.reminders[id]
	if !exists || r.UserID != userID {
		return ErrReminderNotFound
	}
	delete(s.reminders, id)
	return nil
}

type MemoryNoteService struct {
	mu    sync.RWMutex
	notes map[string]models.Note
}

func NewMemoryNoteService() *MemoryNoteService {
	return &MemoryNoteService{notes: make(map[string]models.Note)}
}

func (s *MemoryNoteService) Add(ctx context.Context, userID, text string, now time.Time) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := models.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}
	s.notes[note.ID] = note
	return note, nil
}

func (s *MemoryNoteService) ListForUser(ctx context.Context, userID string) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryNoteService) Delete(ctx context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notes[id]
	if !exists || n.UserID != userID {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}

type memoryLogEntry struct {
	userID string
	at     time.Time
}

type MemoryMessageLogService struct {
	mu      sync.RWMutex
	entries []memoryLogEntry
}

func NewMemoryMessageLogService() *MemoryMessageLogService {
	return &MemoryMessageLogService{}
}

func (s *MemoryMessageLogService) Record(ctx context.Context, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, memoryLogEntry{userID: userID, at: now})
	return nil
}

func (s *MemoryMessageLogService) CountForUser(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.entries {
		if e.userID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryMessageLogService) Leaderboard(ctx context.Context, since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	out := s.rank(func(e memoryLogEntry) bool { return !e.at.Before(since) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryMessageLogService) Ranking(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.rank(func(memoryLogEntry) bool { return true }), nil
}

func (s *MemoryMessageLogService) rank(keep func(memoryLogEntry) bool) []models.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.entries {
		if keep(e) {
			counts[e.userID]++
		}
	}
	out := make([]models.LeaderboardEntry, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.LeaderboardEntry{UserID: id, MessageCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MessageCount != out[j].MessageCount {
			return out[i].MessageCount > out[j].MessageCount
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
