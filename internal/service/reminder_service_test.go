package service

import (
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifedash/internal/domain"
)

type recordingAnnouncer struct {
	mu    sync.Mutex
	texts []string
}

func (a *recordingAnnouncer) Announce(text string) {
	a.mu.Lock()
	a.texts = append(a.texts, text)
	a.mu.Unlock()
}

func (a *recordingAnnouncer) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

func newTestReminderService(announcer Announcer) (*ReminderService, *NotificationService) {
	notifications := NewNotificationService()
	return NewReminderService(zerolog.Nop(), notifications, announcer, nil), notifications
}

func timedEvent(tabID, title string, start time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		Date:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		StartTime:   &start,
		Title:       title,
		Description: title,
		SourceTabID: tabID,
	}
}

func allDayEvent(tabID, title string, day time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{Date: day, Title: title, Description: title, SourceTabID: tabID}
}

func TestRescheduleArmsFutureTrigger(t *testing.T) {
	s, _ := newTestReminderService(nil)
	defer s.CancelAll()

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	armed := s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Checkup", now.Add(time.Hour)),
	}, now)

	require.Equal(t, 1, armed)
	triggers := s.ArmedTriggers()
	require.Len(t, triggers, 1)
	// Start 09:00, lead 15 minutes.
	assert.Equal(t, time.Date(2024, 6, 10, 8, 45, 0, 0, time.UTC), triggers[0])
}

func TestRescheduleSuppressesElapsedTrigger(t *testing.T) {
	s, _ := newTestReminderService(nil)

	// Start at 09:00 means a trigger of 08:45, already behind now = 08:50.
	now := time.Date(2024, 6, 10, 8, 50, 0, 0, time.UTC)
	armed := s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Checkup", time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)),
	}, now)

	assert.Zero(t, armed)
	assert.Empty(t, s.ArmedTriggers())
}

func TestRescheduleTriggerExactlyNowIsSuppressed(t *testing.T) {
	s, _ := newTestReminderService(nil)

	now := time.Date(2024, 6, 10, 8, 45, 0, 0, time.UTC)
	armed := s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Checkup", time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)),
	}, now)

	assert.Zero(t, armed)
}

func TestRescheduleHonorsArmWindow(t *testing.T) {
	s, _ := newTestReminderService(nil)
	defer s.CancelAll()

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	armed := s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Soon", now.Add(24*time.Hour)),
		timedEvent("tab1", "Far", now.Add(8*24*time.Hour)),
	}, now)

	assert.Equal(t, 1, armed)
}

func TestRescheduleIgnoresAllDayEvents(t *testing.T) {
	s, _ := newTestReminderService(nil)

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	armed := s.Reschedule([]domain.CalendarEvent{
		allDayEvent("tab1", "Holiday", now.AddDate(0, 0, 1)),
	}, now)

	assert.Zero(t, armed)
}

func TestRescheduleDeduplicatesIdenticalReminders(t *testing.T) {
	s, _ := newTestReminderService(nil)
	defer s.CancelAll()

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	e := timedEvent("tab1", "Checkup", now.Add(time.Hour))
	armed := s.Reschedule([]domain.CalendarEvent{e, e}, now)

	assert.Equal(t, 1, armed)
}

func TestRescheduleReplacesEntireTimerSet(t *testing.T) {
	s, _ := newTestReminderService(nil)
	defer s.CancelAll()

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Old A", now.Add(time.Hour)),
		timedEvent("tab2", "Old B", now.Add(2*time.Hour)),
	}, now)

	s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab3", "New", now.Add(3*time.Hour)),
	}, now)

	keys := s.ArmedKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, "tab3", keys[0].SourceTabID)
	assert.Equal(t, "New", keys[0].Title)
}

func TestRescheduleIsIdempotent(t *testing.T) {
	s, _ := newTestReminderService(nil)
	defer s.CancelAll()

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	events := []domain.CalendarEvent{
		timedEvent("tab1", "A", now.Add(time.Hour)),
		timedEvent("tab2", "B", now.Add(2*time.Hour)),
	}

	s.Reschedule(events, now)
	first := s.ArmedKeys()
	s.Reschedule(events, now)
	second := s.ArmedKeys()

	sortKeys(first)
	sortKeys(second)
	assert.Equal(t, first, second)
}

func sortKeys(keys []domain.ReminderKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SourceTabID != keys[j].SourceTabID {
			return keys[i].SourceTabID < keys[j].SourceTabID
		}
		return keys[i].Trigger < keys[j].Trigger
	})
}

func TestFireDeliversNotificationAndAnnouncement(t *testing.T) {
	announcer := &recordingAnnouncer{}
	s, notifications := newTestReminderService(announcer)
	defer s.CancelAll()

	// Arm a timer that fires almost immediately: the trigger sits a few
	// milliseconds in the future relative to the injected now.
	start := time.Now().Add(reminderLead + 30*time.Millisecond)
	armed := s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Dentist", start),
	}, time.Now())
	require.Equal(t, 1, armed)

	require.Eventually(t, func() bool {
		return len(notifications.List()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	n := notifications.List()[0]
	assert.Equal(t, "Starting soon", n.Title)
	assert.Contains(t, n.Body, "Dentist")
	assert.Empty(t, s.ArmedTriggers())

	require.Eventually(t, func() bool {
		return len(announcer.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, strings.HasPrefix(announcer.all()[0], "Reminder: "))
}

func TestCanceledTimerNeverFires(t *testing.T) {
	s, notifications := newTestReminderService(nil)

	start := time.Now().Add(reminderLead + 30*time.Millisecond)
	s.Reschedule([]domain.CalendarEvent{
		timedEvent("tab1", "Dentist", start),
	}, time.Now())
	s.Reschedule(nil, time.Now())

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, notifications.List())
}

func TestDigestWindowAndSort(t *testing.T) {
	s, _ := newTestReminderService(nil)
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	events := []domain.CalendarEvent{
		timedEvent("t", "Later today", today.Add(15*time.Hour)),
		allDayEvent("t", "All day today", today),
		timedEvent("t", "Morning", today.Add(9*time.Hour)),
		timedEvent("t", "Within window", today.AddDate(0, 0, 3).Add(10*time.Hour)),
		timedEvent("t", "Beyond window", today.AddDate(0, 0, 4).Add(10*time.Hour)),
		allDayEvent("t", "Yesterday", today.AddDate(0, 0, -1)),
	}

	n := s.Digest(events, now)
	require.NotNil(t, n)
	assert.Equal(t, "Upcoming events", n.Title)

	lines := strings.Split(n.Body, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "All day today")
	assert.Contains(t, lines[1], "Morning")
	assert.Contains(t, lines[2], "Later today")
	assert.Contains(t, lines[3], "Within window")
	assert.NotContains(t, n.Body, "Beyond window")
	assert.NotContains(t, n.Body, "Yesterday")
}

func TestDigestCapsBodyLines(t *testing.T) {
	s, _ := newTestReminderService(nil)
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	var events []domain.CalendarEvent
	for i := 0; i < 12; i++ {
		events = append(events, timedEvent("t", "Event", today.Add(time.Duration(8+i)*time.Hour)))
	}

	n := s.Digest(events, now)
	require.NotNil(t, n)
	assert.Len(t, strings.Split(n.Body, "\n"), 8)
}

func TestDigestEmptyWindowYieldsNothing(t *testing.T) {
	s, notifications := newTestReminderService(nil)
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)

	n := s.Digest(nil, now)
	assert.Nil(t, n)
	assert.Empty(t, notifications.List())
}
