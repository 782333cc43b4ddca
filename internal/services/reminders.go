package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrInvalidRemindAt is returned when no due time can be parsed out of a
// reminder request.
var ErrInvalidRemindAt = errors.New("could not parse reminder time")

const defaultReminderText = "Reminder"

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseRemindAt extracts the due time from the tail of a reminder request and
// returns the remaining words as the reminder text.
//
// Accepted tails, tried in order:
//   - "YYYY-MM-DD HH:MM" (absolute)
//   - "HH:MM" (today; rolled to tomorrow when already past)
//   - anything dateparse understands, in the last one or two fields
//
// A past absolute instant is accepted as-is; an overdue reminder fires on the
// next tick. Text-less requests get a default body.
func ParseRemindAt(args string, now time.Time) (string, time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(args))

	if len(parts) >= 2 && datePattern.MatchString(parts[len(parts)-2]) && timePattern.MatchString(parts[len(parts)-1]) {
		stamp := parts[len(parts)-2] + " " + parts[len(parts)-1]
		at, err := time.ParseInLocation("2006-01-02 15:04", stamp, now.Location())
		if err == nil {
			return reminderText(parts[:len(parts)-2]), at, nil
		}
	}

	if len(parts) >= 1 && timePattern.MatchString(parts[len(parts)-1]) {
		stamp := now.Format("2006-01-02") + " " + parts[len(parts)-1]
		at, err := time.ParseInLocation("2006-01-02 15:04", stamp, now.Location())
		if err == nil {
			if at.Before(now) {
				at = at.Add(24 * time.Hour)
			}
			return reminderText(parts[:len(parts)-1]), at, nil
		}
	}

	// Permissive fallback: try the last two fields, then the last one.
	for _, n := range []int{2, 1} {
		if len(parts) < n {
			continue
		}
		tail := strings.Join(parts[len(parts)-n:], " ")
		if at, err := dateparse.ParseIn(tail, now.Location()); err == nil {
			return reminderText(parts[:len(parts)-n]), at, nil
		}
	}

	return "", time.Time{}, ErrInvalidRemindAt
}

func reminderText(parts []string) string {
	text := strings.Join(parts, " ")
	if text == "" {
		return defaultReminderText
	}
	return text
}

// FormatRemaining renders a duration as its largest nonzero unit pair:
// days+hours, hours+minutes, or minutes+seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d days, %d hours", days, hours)
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	default:
		return fmt.Sprintf("%d minutes, %d seconds", minutes, seconds)
	}
}
