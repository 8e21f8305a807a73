package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lifedash/internal/agenda"
	"lifedash/internal/domain"
)

const (
	// reminderLead is how far before an event's start the reminder fires.
	reminderLead = 15 * time.Minute

	// armWindow caps how far into the future a timer may be armed; events
	// beyond it are picked up by a later recompute.
	armWindow = 7 * 24 * time.Hour

	digestWindowDays = 3
	digestMaxLines   = 8
)

// Announcer speaks a reminder aloud. Implementations are best-effort: they
// must swallow every failure and never block the caller.
type Announcer interface {
	Announce(text string)
}

// Sender forwards a notification to an external delivery channel.
type Sender interface {
	Send(n domain.Notification) error
}

// reminderTimer is one armed, cancelable reminder.
type reminderTimer struct {
	event   domain.CalendarEvent
	trigger time.Time
	timer   *time.Timer
}

// ReminderService owns the armed timer set. The policy is wholesale: every
// recompute cancels all timers and arms a fresh set from the new event
// list, so no stale reminder can outlive the data that produced it.
type ReminderService struct {
	log           zerolog.Logger
	notifications *NotificationService
	announcer     Announcer
	sender        Sender // optional

	mu     sync.Mutex
	timers map[domain.ReminderKey]*reminderTimer
}

func NewReminderService(log zerolog.Logger, notifications *NotificationService, announcer Announcer, sender Sender) *ReminderService {
	if announcer == nil {
		announcer = NoopAnnouncer{}
	}
	return &ReminderService{
		log:           log,
		notifications: notifications,
		announcer:     announcer,
		sender:        sender,
		timers:        make(map[domain.ReminderKey]*reminderTimer),
	}
}

// Reschedule replaces the entire timer set: all previously armed timers are
// canceled first, then one timer is armed per event whose trigger instant
// (start minus the lead) is strictly in the future and within the arm
// window. Identical (tab, title, trigger) triples collapse into one timer.
// It returns the number of timers armed.
func (s *ReminderService) Reschedule(events []domain.CalendarEvent, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAllLocked()

	armed := 0
	for _, e := range events {
		if e.StartTime == nil {
			continue
		}
		trigger := e.StartTime.Add(-reminderLead)
		if !trigger.After(now) {
			continue
		}
		if trigger.Sub(now) > armWindow {
			continue
		}

		key := domain.KeyFor(e, trigger)
		if _, exists := s.timers[key]; exists {
			continue
		}

		rt := &reminderTimer{event: e, trigger: trigger}
		rt.timer = time.AfterFunc(trigger.Sub(now), func() { s.fire(key) })
		s.timers[key] = rt
		armed++
	}

	s.log.Debug().Int("armed", armed).Time("now", now).Msg("reminder timers rescheduled")
	return armed
}

// CancelAll invalidates every armed timer.
func (s *ReminderService) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *ReminderService) cancelAllLocked() {
	for key, rt := range s.timers {
		rt.timer.Stop()
		delete(s.timers, key)
	}
}

// ArmedTriggers returns the trigger instants of the currently armed timers,
// unordered.
func (s *ReminderService) ArmedTriggers() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Time, 0, len(s.timers))
	for _, rt := range s.timers {
		out = append(out, rt.trigger)
	}
	return out
}

// ArmedKeys returns the identity keys of the currently armed timers.
func (s *ReminderService) ArmedKeys() []domain.ReminderKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ReminderKey, 0, len(s.timers))
	for key := range s.timers {
		out = append(out, key)
	}
	return out
}

// fire delivers one reminder: an in-app notification, an optional external
// send and a spoken announcement. Each timer fires at most once; a
// recompute may have discarded it already.
func (s *ReminderService) fire(key domain.ReminderKey) {
	s.mu.Lock()
	rt, ok := s.timers[key]
	if ok {
		delete(s.timers, key)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	e := rt.event
	body := fmt.Sprintf("%s at %s", e.Description, e.StartTime.Format("3:04 PM"))
	n := s.notifications.Add("Starting soon", body, e.StartTime)

	s.log.Info().
		Str("tab", e.SourceTabID).
		Str("title", e.Title).
		Time("start", *e.StartTime).
		Msg("reminder fired")

	if s.sender != nil {
		go func() {
			if err := s.sender.Send(n); err != nil {
				s.log.Warn().Err(err).Msg("reminder delivery failed")
			}
		}()
	}
	s.announcer.Announce("Reminder: " + body)
}

// Digest builds the near-term summary notification: events dated within the
// next three days, all-day entries first, at most eight lines. It returns
// nil when the window holds no events.
func (s *ReminderService) Digest(events []domain.CalendarEvent, now time.Time) *domain.Notification {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, digestWindowDays)

	var upcoming []domain.CalendarEvent
	for _, e := range events {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	if len(upcoming) == 0 {
		return nil
	}

	agenda.SortForDisplay(upcoming)
	if len(upcoming) > digestMaxLines {
		upcoming = upcoming[:digestMaxLines]
	}

	var sb strings.Builder
	for _, e := range upcoming {
		sb.WriteString(e.FormatDateTime())
		sb.WriteString(" — ")
		sb.WriteString(e.Description)
		sb.WriteString("\n")
	}

	n := s.notifications.Add("Upcoming events", strings.TrimRight(sb.String(), "\n"), &now)
	return &n
}

// PublishDigest builds the digest and forwards it to the external channel
// when one is configured. It reports whether a digest was produced.
func (s *ReminderService) PublishDigest(events []domain.CalendarEvent, now time.Time) bool {
	n := s.Digest(events, now)
	if n == nil {
		return false
	}
	if s.sender != nil {
		digest := *n
		go func() {
			if err := s.sender.Send(digest); err != nil {
				s.log.Warn().Err(err).Msg("digest delivery failed")
			}
		}()
	}
	return true
}
