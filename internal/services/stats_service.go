package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zealous/backend/internal/models"
)

const leaderboardSize = 3

// StatsService builds the personal statistics and room leaderboards shown to
// users.
type StatsService struct {
	users       UserStore
	punishments PunishmentStore
	messages    MessageLogStore
}

func NewStatsService(users UserStore, punishments PunishmentStore, messages MessageLogStore) *StatsService {
	return &StatsService{users: users, punishments: punishments, messages: messages}
}

// Report assembles the stats view for one user: their own counters plus the
// daily, weekly and monthly top senders and their overall rank.
func (s *StatsService) Report(ctx context.Context, userID string, now time.Time) (models.StatsReport, error) {
	var report models.StatsReport

	names, err := s.users.DisplayNames(ctx)
	if err != nil {
		return report, fmt.Errorf("stats: display names: %w", err)
	}
	report.DisplayName = names[userID]

	rec, err := s.punishments.Get(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("stats: punishment record: %w", err)
	}
	report.StrikeCount = rec.StrikeCount
	report.TotalMutesServed = rec.TotalMutesServed

	report.TotalMessages, err = s.messages.CountForUser(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("stats: message count: %w", err)
	}

	periods := []struct {
		since time.Time
		dst   *[]models.LeaderboardEntry
	}{
		{startOfDay(now), &report.Daily},
		{startOfWeek(now), &report.Weekly},
		{startOfMonth(now), &report.Monthly},
	}
	for _, p := range periods {
		entries, err := s.messages.Leaderboard(ctx, p.since, leaderboardSize)
		if err != nil {
			return report, fmt.Errorf("stats: leaderboard: %w", err)
		}
		for i := range entries {
			entries[i].DisplayName = names[entries[i].UserID]
		}
		*p.dst = entries
	}

	ranking, err := s.messages.Ranking(ctx)
	if err != nil {
		return report, fmt.Errorf("stats: ranking: %w", err)
	}
	report.TotalUsers = len(ranking)
	for i, entry := range ranking {
		if entry.UserID == userID {
			report.Rank = i + 1
			break
		}
	}

	return report, nil
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// startOfWeek returns the most recent Monday midnight.
func startOfWeek(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the prior Monday
	}
	return startOfDay(now).AddDate(0, 0, -(weekday - 1))
}

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
