package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderRemoveRequiresOwner(t *testing.T) {
	ctx := context.Background()
	reminders := NewMemoryReminderService()

	id, err := reminders.Add(ctx, "u1", "water the plants", testNow.Add(time.Hour), testNow)
	require.NoError(t, err)

	// Another user's delete must not touch the reminder.
	assert.ErrorIs(t, reminders.Remove(ctx, id, "u2"), ErrReminderNotFound)

	owned, err := reminders.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, reminders.Remove(ctx, id, "u1"))
	assert.ErrorIs(t, reminders.Remove(ctx, id, "u1"), ErrReminderNotFound)
}
