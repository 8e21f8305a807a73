package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"lifedash/internal/domain"
	"lifedash/internal/service"
)

type WidgetResponse struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

type TabResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Widgets []WidgetResponse `json:"widgets"`
}

type EventResponse struct {
	Date        string  `json:"date"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	AllDay      bool    `json:"all_day"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SourceTabID string  `json:"source_tab_id"`
}

func widgetToResponse(w *domain.Widget) WidgetResponse {
	content, err := w.ContentJSON()
	if err != nil {
		content = "{}"
	}
	return WidgetResponse{
		ID:      w.ID,
		Kind:    string(w.Kind),
		Title:   w.Title,
		Content: json.RawMessage(content),
	}
}

func tabsToResponse(tabs []domain.Tab) []TabResponse {
	out := make([]TabResponse, 0, len(tabs))
	for i := range tabs {
		tr := TabResponse{
			ID:      tabs[i].ID,
			Name:    tabs[i].Name,
			Widgets: make([]WidgetResponse, 0, len(tabs[i].Widgets)),
		}
		for j := range tabs[i].Widgets {
			tr.Widgets = append(tr.Widgets, widgetToResponse(&tabs[i].Widgets[j]))
		}
		out = append(out, tr)
	}
	return out
}

func eventsToResponse(events []domain.CalendarEvent) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		er := EventResponse{
			Date:        e.Date.Format("2006-01-02"),
			AllDay:      e.AllDay(),
			Title:       e.Title,
			Description: e.Description,
			SourceTabID: e.SourceTabID,
		}
		if e.StartTime != nil {
			v := e.StartTime.Format(time.RFC3339)
			er.StartTime = &v
		}
		if e.EndTime != nil {
			v := e.EndTime.Format(time.RFC3339)
			er.EndTime = &v
		}
		out = append(out, er)
	}
	return out
}

// refresh reruns the derivation pipeline after a mutation. The mutation is
// already persisted, so a failed recompute is logged rather than returned.
func (s *Server) refresh() {
	if err := s.agenda.Refresh(); err != nil {
		s.log.Error().Err(err).Msg("agenda refresh failed")
	}
}

// GET /api/tabs
func (s *Server) handleListTabs(w http.ResponseWriter, _ *http.Request) {
	tabs, err := s.widgets.Snapshot()
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, tabsToResponse(tabs))
}

// POST /api/tabs
func (s *Server) handleCreateTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	tab, err := s.widgets.CreateTab(req.Name)
	if err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, TabResponse{ID: tab.ID, Name: tab.Name, Widgets: []WidgetResponse{}})
}

// PATCH /api/tabs/{id}
func (s *Server) handleRenameTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := s.widgets.RenameTab(mux.Vars(r)["id"], req.Name); err != nil {
		s.jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.jsonResponse(w, nil)
}

// DELETE /api/tabs/{id}
func (s *Server) handleDeleteTab(w http.ResponseWriter, r *http.Request) {
	if err := s.widgets.DeleteTab(mux.Vars(r)["id"]); err != nil {
		s.jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.refresh()
	s.jsonResponse(w, nil)
}

// POST /api/tabs/{id}/widgets
func (s *Server) handleCreateWidget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string          `json:"kind"`
		Title   string          `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	widget, err := s.widgets.CreateWidget(mux.Vars(r)["id"], domain.WidgetKind(req.Kind), req.Title, string(req.Content))
	if err != nil {
		s.jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.refresh()
	s.jsonResponse(w, widgetToResponse(widget))
}

// PATCH /api/widgets/{id}
func (s *Server) handleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   *string         `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if req.Title != nil {
		if err := s.widgets.UpdateWidgetTitle(id, *req.Title); err != nil {
			s.jsonError(w, err.Error(), statusFor(err))
			return
		}
	}
	if len(req.Content) > 0 {
		if err := s.widgets.UpdateWidgetContent(id, string(req.Content)); err != nil {
			s.jsonError(w, err.Error(), statusFor(err))
			return
		}
	}
	s.refresh()
	s.jsonResponse(w, nil)
}

// DELETE /api/widgets/{id}
func (s *Server) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	if err := s.widgets.DeleteWidget(mux.Vars(r)["id"]); err != nil {
		s.jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.refresh()
	s.jsonResponse(w, nil)
}

// GET /api/agenda
func (s *Server) handleAgenda(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, eventsToResponse(s.agenda.Events()))
}

// GET /api/agenda/{date}
func (s *Server) handleAgendaDay(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation("2006-01-02", mux.Vars(r)["date"], s.agenda.Location())
	if err != nil {
		s.jsonError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, eventsToResponse(s.agenda.EventsForDay(day)))
}

// GET /api/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, s.notifications.List())
}

// DELETE /api/notifications/{id}
func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if !s.notifications.Dismiss(mux.Vars(r)["id"]) {
		s.jsonError(w, "notification not found", http.StatusNotFound)
		return
	}
	s.jsonResponse(w, nil)
}

func statusFor(err error) int {
	if errors.Is(err, service.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
