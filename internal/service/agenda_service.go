package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lifedash/internal/agenda"
	"lifedash/internal/domain"
)

// AgendaService runs the derivation pipeline: snapshot in, ordered events
// and armed reminders out. Derivation itself is pure; this service owns the
// cached result and the recompute-on-every-mutation policy.
type AgendaService struct {
	log         zerolog.Logger
	widgets     *WidgetService
	reminders   *ReminderService
	horizonDays int
	loc         *time.Location
	now         func() time.Time

	mu     sync.RWMutex
	events []domain.CalendarEvent
}

// NewAgendaService wires the pipeline. nowFn is the clock; nil means
// wall-clock time (tests inject a fixed instant).
func NewAgendaService(log zerolog.Logger, widgets *WidgetService, reminders *ReminderService, loc *time.Location, nowFn func() time.Time) *AgendaService {
	if loc == nil {
		loc = time.Local
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	return &AgendaService{
		log:         log,
		widgets:     widgets,
		reminders:   reminders,
		horizonDays: agenda.DefaultHorizonDays,
		loc:         loc,
		now:         nowFn,
	}
}

// Refresh reloads the snapshot, rederives the event list and replaces the
// entire reminder timer set. It runs after initial load and after every
// widget mutation; the derivation is deterministic for a given snapshot
// and instant.
func (s *AgendaService) Refresh() error {
	return s.RefreshAt(s.now().In(s.loc))
}

// RefreshAt is Refresh with an explicit reference instant.
func (s *AgendaService) RefreshAt(now time.Time) error {
	tabs, err := s.widgets.Snapshot()
	if err != nil {
		return err
	}

	events := agenda.Derive(tabs, s.horizonDays, now)

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()

	armed := s.reminders.Reschedule(events, now)
	s.log.Debug().
		Int("events", len(events)).
		Int("reminders", armed).
		Msg("agenda recomputed")
	return nil
}

// Events returns the cached derived event list.
func (s *AgendaService) Events() []domain.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

// EventsForDay returns the display-sorted events of one calendar day.
func (s *AgendaService) EventsForDay(day time.Time) []domain.CalendarEvent {
	return agenda.EventsForDay(s.Events(), day)
}

// PublishDigest issues the near-term digest notification from the cached
// events.
func (s *AgendaService) PublishDigest() bool {
	return s.reminders.PublishDigest(s.Events(), s.now().In(s.loc))
}

// Location returns the configured display timezone.
func (s *AgendaService) Location() *time.Location {
	return s.loc
}
