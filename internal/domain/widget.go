package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WidgetKind discriminates the widget content payload.
type WidgetKind string

const (
	KindNote        WidgetKind = "note"
	KindAppointment WidgetKind = "appointment"
	KindSchedule    WidgetKind = "schedule"
	KindChecklist   WidgetKind = "checklist"
	KindSettings    WidgetKind = "settings"
)

// ValidKind reports whether k is a known widget kind.
func ValidKind(k WidgetKind) bool {
	switch k {
	case KindNote, KindAppointment, KindSchedule, KindChecklist, KindSettings:
		return true
	}
	return false
}

// Recurrence is an appointment repeat rule.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// AppointmentContent is the payload of an appointment widget.
type AppointmentContent struct {
	Date        string     `json:"date"` // YYYY-MM-DD, empty = no event derived
	Time        string     `json:"time"` // HH:MM, optional
	Person      string     `json:"person"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Recurrence  Recurrence `json:"recurrence"`
}

// ParseDate parses the appointment date in the given location.
// ok is false when the date is empty or malformed.
func (c *AppointmentContent) ParseDate(loc *time.Location) (time.Time, bool) {
	if c.Date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", c.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseStartTime attaches the HH:MM time field to the given date.
// ok is false when the time field is empty or malformed.
func (c *AppointmentContent) ParseStartTime(date time.Time) (time.Time, bool) {
	if c.Time == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", c.Time)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

// ScheduleContent holds one free-text field per weekday.
type ScheduleContent struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// Field returns the schedule text for the given weekday.
func (c *ScheduleContent) Field(d time.Weekday) string {
	switch d {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	}
	return ""
}

// IsBlank reports whether no weekday carries any text.
func (c *ScheduleContent) IsBlank() bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.TrimSpace(c.Field(d)) != "" {
			return false
		}
	}
	return true
}

// ChecklistItem is a single checklist entry.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ChecklistContent is the payload of a checklist widget.
type ChecklistContent struct {
	Items []ChecklistItem `json:"items"`
}

// Widget is one dashboard widget. Exactly one content field is set,
// matching Kind.
type Widget struct {
	ID          string
	Kind        WidgetKind
	Title       string
	Note        string              // KindNote
	Appointment *AppointmentContent // KindAppointment
	Schedule    *ScheduleContent    // KindSchedule
	Checklist   *ChecklistContent   // KindChecklist
	Settings    json.RawMessage     // KindSettings, opaque
}

// ContentJSON serializes the kind-specific payload for storage.
func (w *Widget) ContentJSON() (string, error) {
	var v any
	switch w.Kind {
	case KindNote:
		v = w.Note
	case KindAppointment:
		if w.Appointment == nil {
			w.Appointment = &AppointmentContent{Recurrence: RecurNone}
		}
		v = w.Appointment
	case KindSchedule:
		if w.Schedule == nil {
			w.Schedule = &ScheduleContent{}
		}
		v = w.Schedule
	case KindChecklist:
		if w.Checklist == nil {
			w.Checklist = &ChecklistContent{}
		}
		v = w.Checklist
	case KindSettings:
		if len(w.Settings) == 0 {
			return "{}", nil
		}
		return string(w.Settings), nil
	default:
		return "", fmt.Errorf("unknown widget kind: %s", w.Kind)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s content: %w", w.Kind, err)
	}
	return string(data), nil
}

// SetContentJSON parses the stored payload into the kind-specific field.
func (w *Widget) SetContentJSON(data string) error {
	switch w.Kind {
	case KindNote:
		return json.Unmarshal([]byte(data), &w.Note)
	case KindAppointment:
		w.Appointment = &AppointmentContent{}
		return json.Unmarshal([]byte(data), w.Appointment)
	case KindSchedule:
		w.Schedule = &ScheduleContent{}
		return json.Unmarshal([]byte(data), w.Schedule)
	case KindChecklist:
		w.Checklist = &ChecklistContent{}
		return json.Unmarshal([]byte(data), w.Checklist)
	case KindSettings:
		w.Settings = json.RawMessage(data)
		return nil
	}
	return fmt.Errorf("unknown widget kind: %s", w.Kind)
}

// Tab is a named group of widgets. A tab owns its widgets exclusively.
type Tab struct {
	ID      string
	Name    string
	Widgets []Widget
}
