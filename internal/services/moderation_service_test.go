package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zealous/backend/internal/models"
)

type fakeTransport struct {
	mu      sync.Mutex
	seq     int
	sent    []string
	direct  []string
	deleted []string
	fail    bool
}

func (t *fakeTransport) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return "", ErrDeliveryFailed
	}
	t.seq++
	t.sent = append(t.sent, text)
	return fmt.Sprintf("m%d", t.seq), nil
}

func (t *fakeTransport) SendDirect(ctx context.Context, userID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return ErrDeliveryFailed
	}
	t.direct = append(t.direct, text)
	return nil
}

func (t *fakeTransport) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return ErrDeliveryFailed
	}
	t.deleted = append(t.deleted, messageID)
	return nil
}

func (t *fakeTransport) counts() (sent, direct, deleted int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent), len(t.direct), len(t.deleted)
}

type failingPunishmentStore struct {
	PunishmentStore
	failSave bool
}

var errStoreDown = errors.New("store down")

func (s *failingPunishmentStore) Save(ctx context.Context, rec models.PunishmentRecord) error {
	if s.failSave {
		return errStoreDown
	}
	return s.PunishmentStore.Save(ctx, rec)
}

type moderationFixture struct {
	svc         *ModerationService
	punishments *MemoryPunishmentService
	reminders   *MemoryReminderService
	messages    *MemoryMessageLogService
	transport   *fakeTransport
}

func newModerationFixture(t *testing.T, terms string) *moderationFixture {
	t.Helper()
	f := &moderationFixture{
		punishments: NewMemoryPunishmentService(),
		reminders:   NewMemoryReminderService(),
		messages:    NewMemoryMessageLogService(),
		transport:   &fakeTransport{},
	}
	f.svc = NewModerationService(newTestWordList(t, terms), NewMemoryUserService(),
		f.punishments, f.reminders, f.messages, f.transport)
	return f
}

func effectKinds(effects []models.Effect) []models.EffectKind {
	kinds := make([]models.EffectKind, len(effects))
	for i, e := range effects {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestEvaluateCleanMessage(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	effects, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "hello there", testNow)
	require.NoError(t, err)
	assert.Empty(t, effects)

	// Counted as normal traffic.
	n, err := f.messages.CountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.StrikeCount)
}

func TestEvaluateViolationBelowThreshold(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	effects, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "you badword", testNow)
	require.NoError(t, err)
	assert.Equal(t, []models.EffectKind{models.EffectDeleteMessage, models.EffectWarnEphemeral}, effectKinds(effects))

	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.StrikeCount)
	assert.False(t, rec.IsMuted)

	// Violations are not counted as normal traffic.
	n, err := f.messages.CountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, _, deleted := f.transport.counts()
	assert.Equal(t, 1, deleted)
}

func TestEvaluateThirdViolationMutes(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	rec := models.DefaultPunishmentRecord("u1")
	rec.StrikeCount = 2
	require.NoError(t, f.punishments.Save(ctx, rec))

	effects, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "badword again", testNow)
	require.NoError(t, err)
	assert.Equal(t, []models.EffectKind{
		models.EffectDeleteMessage,
		models.EffectWarnEphemeral,
		models.EffectMuteApplied,
		models.EffectMuteNotice,
	}, effectKinds(effects))

	got, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.StrikeCount)
	assert.True(t, got.IsMuted)
	require.NotNil(t, got.MuteUntil)
	assert.Equal(t, testNow.Add(5*time.Minute), *got.MuteUntil)
	assert.Equal(t, models.LongMute, got.NextMuteType)
	assert.Equal(t, 1, got.TotalMutesServed)

	_, direct, _ := f.transport.counts()
	assert.Equal(t, 1, direct)
}

func TestEvaluateMutedUserSuppressed(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	until := testNow.Add(3 * time.Minute)
	require.NoError(t, f.punishments.Save(ctx, models.PunishmentRecord{
		UserID:       "u1",
		IsMuted:      true,
		MuteUntil:    &until,
		NextMuteType: models.LongMute,
	}))

	// Forbidden text while muted must not score a violation.
	effects, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "badword", testNow)
	require.NoError(t, err)
	assert.Equal(t, []models.EffectKind{models.EffectDeleteMessage, models.EffectMuteStatus}, effectKinds(effects))

	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.StrikeCount)
	assert.True(t, rec.IsMuted)
}

func TestEvaluateExpiredMuteLifts(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	until := testNow.Add(5 * time.Minute)
	require.NoError(t, f.punishments.Save(ctx, models.PunishmentRecord{
		UserID:           "u1",
		IsMuted:          true,
		MuteUntil:        &until,
		NextMuteType:     models.LongMute,
		TotalMutesServed: 1,
	}))

	effects, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "hello", testNow.Add(6*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []models.EffectKind{models.EffectPunishmentEnded}, effectKinds(effects))

	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, rec.IsMuted)
	assert.Nil(t, rec.MuteUntil)
	assert.Equal(t, models.LongMute, rec.NextMuteType)
}

func TestEvaluatePersistFailureExecutesNoEffects(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	failing := &failingPunishmentStore{PunishmentStore: f.punishments, failSave: true}
	f.svc = NewModerationService(newTestWordList(t, "badword\n"), NewMemoryUserService(),
		failing, f.reminders, f.messages, f.transport)
	ctx := context.Background()

	_, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", "msg1", "badword", testNow)
	require.ErrorIs(t, err, errStoreDown)

	// The decided effects were never executed.
	sent, direct, deleted := f.transport.counts()
	assert.Zero(t, sent)
	assert.Zero(t, direct)
	assert.Zero(t, deleted)
}

func TestAdminClearResetsRecord(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	until := testNow.Add(time.Hour)
	require.NoError(t, f.punishments.Save(ctx, models.PunishmentRecord{
		UserID:           "u1",
		StrikeCount:      2,
		IsMuted:          true,
		MuteUntil:        &until,
		NextMuteType:     models.LongMuteServed,
		TotalMutesServed: 3,
	}))

	require.NoError(t, f.svc.AdminClearPunishments(ctx, "u1"))

	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPunishmentRecord("u1"), rec)
}

func TestTickDeliversAtMostOnce(t *testing.T) {
	f := newModerationFixture(t, "")
	ctx := context.Background()

	_, err := f.reminders.Add(ctx, "u1", "water the plants", testNow.Add(-time.Second), testNow.Add(-time.Hour))
	require.NoError(t, err)
	_, err = f.reminders.Add(ctx, "u2", "later", testNow.Add(time.Hour), testNow)
	require.NoError(t, err)

	attempts, err := f.svc.Tick(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Delivered)
	assert.Equal(t, "u1", attempts[0].Reminder.UserID)

	_, direct, _ := f.transport.counts()
	assert.Equal(t, 1, direct)

	// Delivered reminders never fire again.
	attempts, err = f.svc.Tick(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestTickDiscardsFailedDelivery(t *testing.T) {
	f := newModerationFixture(t, "")
	f.transport.fail = true
	ctx := context.Background()

	_, err := f.reminders.Add(ctx, "u1", "doomed", testNow.Add(-time.Minute), testNow.Add(-time.Hour))
	require.NoError(t, err)

	attempts, err := f.svc.Tick(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Delivered)
	assert.NotEmpty(t, attempts[0].Error)

	// Discarded, not retried.
	f.transport.fail = false
	attempts, err = f.svc.Tick(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestConcurrentViolationsSerializedPerUser(t *testing.T) {
	f := newModerationFixture(t, "badword\n")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.svc.EvaluateMessage(ctx, "u1", "Alice", "c1", fmt.Sprintf("msg%d", n), "badword", testNow)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Exactly three strikes scored: one mute, zero strikes left over.
	rec, err := f.punishments.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.StrikeCount)
	assert.True(t, rec.IsMuted)
	assert.Equal(t, 1, rec.TotalMutesServed)
}
