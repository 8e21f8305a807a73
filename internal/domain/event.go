package domain

import "time"

// CalendarEvent is one derived, ephemeral agenda entry. Events are never
// persisted; the full set is recomputed from the widget snapshot on every
// data change.
type CalendarEvent struct {
	Date        time.Time  // midnight of the event's day
	StartTime   *time.Time // nil = all-day
	EndTime     *time.Time // nil = open-ended; always on the same day as StartTime
	Title       string
	Description string
	SourceTabID string
}

// AllDay reports whether the event has no precise start time.
func (e *CalendarEvent) AllDay() bool {
	return e.StartTime == nil
}

// FormatTime returns the time range for display.
func (e *CalendarEvent) FormatTime() string {
	if e.StartTime == nil {
		return "All day"
	}
	if e.EndTime == nil {
		return e.StartTime.Format("15:04")
	}
	return e.StartTime.Format("15:04") + "-" + e.EndTime.Format("15:04")
}

// FormatDateTime returns the date and time for display.
func (e *CalendarEvent) FormatDateTime() string {
	if e.StartTime == nil {
		return e.Date.Format("Mon, Jan 2") + " (all day)"
	}
	return e.StartTime.Format("Mon, Jan 2 15:04")
}

// OnDay reports whether the event falls on the given calendar day.
func (e *CalendarEvent) OnDay(day time.Time) bool {
	return e.Date.Year() == day.Year() && e.Date.YearDay() == day.YearDay()
}

// ReminderKey uniquely identifies one armed reminder so that a recompute
// does not stack a duplicate timer for the same trigger.
type ReminderKey struct {
	SourceTabID string
	Title       string
	Trigger     int64 // unix seconds of the trigger instant
}

// KeyFor builds the reminder identity key for an event and its trigger.
func KeyFor(e CalendarEvent, trigger time.Time) ReminderKey {
	return ReminderKey{
		SourceTabID: e.SourceTabID,
		Title:       e.Title,
		Trigger:     trigger.Unix(),
	}
}
