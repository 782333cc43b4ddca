package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zealous/backend/internal/models"
)

func TestStatsReport(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserService()
	punishments := NewMemoryPunishmentService()
	messages := NewMemoryMessageLogService()
	stats := NewStatsService(users, punishments, messages)

	// 2026-08-01 is a Saturday; the week started Monday 2026-07-27.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, users.UpsertActivity(ctx, "u1", "Alice", now))
	require.NoError(t, users.UpsertActivity(ctx, "u2", "Bob", now))
	require.NoError(t, users.UpsertActivity(ctx, "u3", "Cem", now))

	require.NoError(t, punishments.Save(ctx, models.PunishmentRecord{
		UserID:           "u1",
		StrikeCount:      1,
		NextMuteType:     models.LongMute,
		TotalMutesServed: 1,
	}))

	// u2 leads overall, u1 leads today.
	for i := 0; i < 3; i++ {
		require.NoError(t, messages.Record(ctx, "u2", now.AddDate(0, 0, -10)))
	}
	require.NoError(t, messages.Record(ctx, "u1", now))
	require.NoError(t, messages.Record(ctx, "u1", now.AddDate(0, 0, -2)))
	require.NoError(t, messages.Record(ctx, "u3", now.AddDate(0, 0, -40)))

	report, err := stats.Report(ctx, "u1", now)
	require.NoError(t, err)

	assert.Equal(t, "Alice", report.DisplayName)
	assert.Equal(t, 1, report.StrikeCount)
	assert.Equal(t, 1, report.TotalMutesServed)
	assert.Equal(t, int64(2), report.TotalMessages)
	assert.Equal(t, 2, report.Rank)
	assert.Equal(t, 3, report.TotalUsers)

	require.Len(t, report.Daily, 1)
	assert.Equal(t, "u1", report.Daily[0].UserID)
	assert.Equal(t, "Alice", report.Daily[0].DisplayName)
	assert.Equal(t, int64(1), report.Daily[0].MessageCount)

	// Thursday's message falls inside the current week but not today.
	require.Len(t, report.Weekly, 1)
	assert.Equal(t, int64(2), report.Weekly[0].MessageCount)

	// u3's message is from June, outside the month window.
	require.Len(t, report.Monthly, 1)
	assert.Equal(t, "u1", report.Monthly[0].UserID)
}

func TestStatsReportUnknownUser(t *testing.T) {
	ctx := context.Background()
	stats := NewStatsService(NewMemoryUserService(), NewMemoryPunishmentService(), NewMemoryMessageLogService())

	report, err := stats.Report(ctx, "ghost", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, report.TotalMessages)
	assert.Zero(t, report.Rank)
	assert.Empty(t, report.Daily)
}

func TestStartOfWeekIsMonday(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		// Saturday → the preceding Monday.
		{time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)},
		// Monday maps to itself at midnight.
		{time.Date(2026, 8, 3, 23, 59, 0, 0, time.UTC), time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that started six days earlier.
		{time.Date(2026, 8, 2, 1, 0, 0, 0, time.UTC), time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, startOfWeek(c.now), "now=%s", c.now)
	}
}
