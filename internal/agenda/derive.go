package agenda

import (
	"sort"
	"strings"
	"time"

	"lifedash/internal/domain"
)

// DefaultHorizonDays is the rolling window over which recurring
// appointments and weekly schedules are expanded.
const DefaultHorizonDays = 180

// Derive walks every widget of every tab and produces the flat list of
// calendar events for the next horizonDays days. Only appointment and
// schedule widgets contribute; all other kinds are skipped. The output is
// unsorted and undeduplicated; ordering is the caller's concern.
//
// Derivation never fails: a widget with an unparseable date simply yields
// no events.
func Derive(tabs []domain.Tab, horizonDays int, now time.Time) []domain.CalendarEvent {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	today := midnight(now)

	var events []domain.CalendarEvent
	for _, tab := range tabs {
		for i := range tab.Widgets {
			w := &tab.Widgets[i]
			switch w.Kind {
			case domain.KindAppointment:
				events = append(events, deriveAppointment(tab.ID, w, now.Location())...)
			case domain.KindSchedule:
				events = append(events, deriveSchedule(tab.ID, w, today, horizonDays)...)
			case domain.KindNote, domain.KindChecklist, domain.KindSettings:
				// No time content.
			}
		}
	}
	return events
}

func deriveAppointment(tabID string, w *domain.Widget, loc *time.Location) []domain.CalendarEvent {
	c := w.Appointment
	if c == nil {
		return nil
	}
	anchor, ok := c.ParseDate(loc)
	if !ok {
		return nil
	}

	eventAt := func(date time.Time) domain.CalendarEvent {
		e := domain.CalendarEvent{
			Date:        date,
			Title:       w.Title,
			Description: appointmentDescription(w.Title, c),
			SourceTabID: tabID,
		}
		if start, ok := c.ParseStartTime(date); ok {
			e.StartTime = &start
		}
		return e
	}

	events := []domain.CalendarEvent{eventAt(anchor)}
	for _, date := range ExpandRecurrence(anchor, c.Recurrence) {
		events = append(events, eventAt(date))
	}
	return events
}

// appointmentDescription composes the display description from the free
// text (falling back to the widget title) plus person and location.
func appointmentDescription(title string, c *domain.AppointmentContent) string {
	desc := c.Description
	if desc == "" {
		desc = title
	}
	if c.Person != "" {
		desc += " w/ " + c.Person
	}
	if c.Location != "" {
		desc += " at " + c.Location
	}
	return desc
}

func deriveSchedule(tabID string, w *domain.Widget, today time.Time, horizonDays int) []domain.CalendarEvent {
	c := w.Schedule
	if c == nil {
		return nil
	}

	var events []domain.CalendarEvent
	for i := 0; i < horizonDays; i++ {
		day := today.AddDate(0, 0, i)
		text := strings.TrimSpace(c.Field(day.Weekday()))
		if text == "" {
			continue
		}
		tr := ParseTimeRange(text, day)
		events = append(events, domain.CalendarEvent{
			Date:        day,
			StartTime:   tr.Start,
			EndTime:     tr.End,
			Title:       w.Title,
			Description: tr.Description,
			SourceTabID: tabID,
		})
	}
	return events
}

// EventsForDay filters events to one calendar day and sorts them for
// display: all-day entries first, then ascending by start time.
func EventsForDay(events []domain.CalendarEvent, day time.Time) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range events {
		if e.OnDay(day) {
			out = append(out, e)
		}
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay orders events by date, with all-day entries ahead of timed
// ones on the same day and timed ones ascending by start.
func SortForDisplay(events []domain.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime == nil {
			return b.StartTime != nil
		}
		if b.StartTime == nil {
			return false
		}
		return a.StartTime.Before(*b.StartTime)
	})
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
