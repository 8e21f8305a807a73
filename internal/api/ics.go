package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"

	"lifedash/internal/domain"
)

// GET /calendar.ics serves the derived agenda as a subscribable iCalendar
// feed.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	cal := agendaToICS(s.agenda.Events())

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="lifedash.ics"`)
	_, _ = buf.WriteTo(w)
}

func agendaToICS(events []domain.CalendarEvent) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//LifeDash//Agenda//EN")

	stamp := time.Now().UTC()
	for i := range events {
		e := &events[i]

		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, eventUID(e))
		vevent.Props.SetText(ical.PropSummary, e.Description)
		vevent.Props.SetText(ical.PropCategories, e.SourceTabID)

		// All-day entries become date values, timed ones UTC datetimes.
		if e.StartTime == nil {
			vevent.Props.SetDate(ical.PropDateTimeStart, e.Date)
			vevent.Props.SetDate(ical.PropDateTimeEnd, e.Date.AddDate(0, 0, 1))
		} else {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
			if e.EndTime != nil {
				vevent.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
			}
		}
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

		cal.Children = append(cal.Children, vevent.Component)
	}
	return cal
}

// eventUID derives a stable per-occurrence UID so calendar clients can
// reconcile the feed across fetches.
func eventUID(e *domain.CalendarEvent) string {
	suffix := "allday"
	if e.StartTime != nil {
		suffix = e.StartTime.Format("150405")
	}
	return fmt.Sprintf("%s-%s-%s-%s@lifedash", e.SourceTabID, sanitize(e.Title), e.Date.Format("20060102"), suffix)
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
