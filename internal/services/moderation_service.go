package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zealous/backend/internal/models"
)

const botName = "ZeaLouS"

const (
	// Ephemeral notice lifetimes.
	muteStatusTTL = 5 * time.Second
	warningTTL    = 7 * time.Second

	// Bound on a single reminder delivery; an unreachable recipient must not
	// stall the tick loop.
	deliveryTimeout = 10 * time.Second
)

// ModerationService sequences the matcher, the punishment state machine and
// the reminder scheduler against incoming messages and ticks. It is the only
// layer that performs I/O: store writes commit before any effect is executed,
// so a failed write never half-punishes a user.
type ModerationService struct {
	words       *WordList
	users       UserStore
	punishments PunishmentStore
	reminders   ReminderStore
	messages    MessageLogStore
	transport   Transport

	// Per-user critical sections: no two concurrent evaluations for the same
	// user may score violations from overlapping stale reads.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewModerationService(words *WordList, users UserStore, punishments PunishmentStore,
	reminders ReminderStore, messages MessageLogStore, transport Transport) *ModerationService {
	return &ModerationService{
		words:       words,
		users:       users,
		punishments: punishments,
		reminders:   reminders,
		messages:    messages,
		transport:   transport,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *ModerationService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// EvaluateMessage runs the per-message moderation protocol and returns the
// effects that were executed. The read-modify-write of the punishment record
// is serialized per user; evaluations for different users proceed in parallel.
func (s *ModerationService) EvaluateMessage(ctx context.Context, userID, displayName, chatID, messageID, text string, now time.Time) ([]models.Effect, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.users.UpsertActivity(ctx, userID, displayName, now); err != nil {
		return nil, fmt.Errorf("evaluate: upsert user: %w", err)
	}

	rec, err := s.punishments.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("evaluate: load punishment record: %w", err)
	}

	var effects []models.Effect

	rec, ended := ExpireCheck(rec, now)
	if ended {
		if err := s.punishments.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("evaluate: save expired record: %w", err)
		}
		effects = append(effects, models.Effect{
			Kind:   models.EffectPunishmentEnded,
			UserID: userID,
			ChatID: chatID,
			Text:   fmt.Sprintf("%s: %s, your sentence has ended. You may post again.", botName, displayName),
		})
		log.Printf("[moderation] mute expired user=%s tier=%s", userID, rec.NextMuteType)
	}

	if rec.MutedAt(now) {
		remaining := rec.MuteUntil.Sub(now)
		effects = append(effects,
			models.Effect{
				Kind:      models.EffectDeleteMessage,
				UserID:    userID,
				ChatID:    chatID,
				MessageID: messageID,
			},
			models.Effect{
				Kind:   models.EffectMuteStatus,
				UserID: userID,
				ChatID: chatID,
				Text: fmt.Sprintf("%s: %s, you are currently muted. Your sentence has %s remaining.",
					botName, displayName, FormatRemaining(remaining)),
				TTL: muteStatusTTL,
			},
		)
		s.execute(ctx, effects)
		log.Printf("[moderation] suppressed message from muted user=%s remaining=%s", userID, FormatRemaining(remaining))
		return effects, nil
	}

	matched, terms := s.words.ContainsForbiddenContent(text)
	if !matched {
		if err := s.messages.Record(ctx, userID, now); err != nil {
			// Statistics only; the message itself was fine.
			log.Printf("[moderation] message record failed user=%s err=%v", userID, err)
		}
		s.execute(ctx, effects)
		return effects, nil
	}

	log.Printf("[moderation] forbidden content user=%s terms=%v", userID, terms)

	out := ApplyViolation(rec, now)
	effects = append(effects,
		models.Effect{
			Kind:      models.EffectDeleteMessage,
			UserID:    userID,
			ChatID:    chatID,
			MessageID: messageID,
		},
		models.Effect{
			Kind:   models.EffectWarnEphemeral,
			UserID: userID,
			ChatID: chatID,
			Text: fmt.Sprintf("%s: forbidden word detected in your message, %s.\nYour violation count: %d",
				botName, displayName, out.StrikeCount),
			TTL: warningTTL,
		},
	)
	if out.Muted {
		effects = append(effects,
			models.Effect{
				Kind:   models.EffectMuteApplied,
				UserID: userID,
				ChatID: chatID,
				Text:   fmt.Sprintf("%s: %s, punishment applied!", botName, displayName),
				TTL:    warningTTL,
			},
			models.Effect{
				Kind:   models.EffectMuteNotice,
				UserID: userID,
				Text: fmt.Sprintf("%s: You have been muted for %s. Review the rules before posting again.",
					botName, FormatRemaining(out.MuteDuration)),
			},
		)
		log.Printf("[moderation] mute applied user=%s duration=%s next_tier=%s total=%d",
			userID, out.MuteDuration, out.Record.NextMuteType, out.Record.TotalMutesServed)
	}

	// Commit point: if the write fails, nothing is sent and the evaluation
	// fails as a unit.
	if err := s.punishments.Save(ctx, out.Record); err != nil {
		return nil, fmt.Errorf("evaluate: save punishment record: %w", err)
	}

	s.execute(ctx, effects)
	return effects, nil
}

// execute performs the decided effects against the transport. Delivery
// failures are logged for the operator; they never fail the evaluation.
func (s *ModerationService) execute(ctx context.Context, effects []models.Effect) {
	for _, e := range effects {
		var err error
		switch {
		case e.Kind == models.EffectDeleteMessage:
			err = s.transport.DeleteMessage(ctx, e.ChatID, e.MessageID)
		case e.Kind == models.EffectMuteNotice:
			err = s.transport.SendDirect(ctx, e.UserID, e.Text)
		case e.TTL > 0:
			err = SendEphemeral(ctx, s.transport, e.ChatID, e.Text, e.TTL)
		default:
			_, err = s.transport.SendMessage(ctx, e.ChatID, e.Text)
		}
		if err != nil {
			log.Printf("[moderation] effect %s failed user=%s err=%v", e.Kind, e.UserID, err)
		}
	}
}

// Tick delivers every due reminder at most once. Each reminder is removed from
// the store before the delivery attempt: a reminder that fails to send is
// logged and discarded, never retried.
func (s *ModerationService) Tick(ctx context.Context, now time.Time) ([]models.DeliveryAttempt, error) {
	due, err := s.reminders.DueNow(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("tick: fetch due reminders: %w", err)
	}

	attempts := make([]models.DeliveryAttempt, 0, len(due))
	for _, r := range due {
		if err := s.reminders.Remove(ctx, r.ID, r.UserID); err != nil {
			// Not removed means it would fire again next tick; skip the
			// delivery rather than risk a duplicate.
			log.Printf("[reminders] remove failed id=%d user=%s err=%v", r.ID, r.UserID, err)
			continue
		}

		dctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := s.transport.SendDirect(dctx, r.UserID, fmt.Sprintf("%s: Reminder: '%s'", botName, r.Text))
		cancel()

		attempt := models.DeliveryAttempt{Reminder: r, Delivered: err == nil}
		if err != nil {
			attempt.Error = err.Error()
			log.Printf("[reminders] delivery failed id=%d user=%s err=%v (discarded)", r.ID, r.UserID, err)
		} else {
			log.Printf("[reminders] delivered id=%d user=%s due=%s", r.ID, r.UserID, r.RemindAt.Format(time.RFC3339))
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

// AdminClearPunishments resets a user's punishment record to defaults.
func (s *ModerationService) AdminClearPunishments(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.punishments.Clear(ctx, userID); err != nil {
		return fmt.Errorf("admin clear: %w", err)
	}
	log.Printf("[moderation] punishments cleared user=%s", userID)
	return nil
}
