// Package api exposes the dashboard over HTTP: tab/widget CRUD, the derived
// agenda, the notification center and an iCalendar feed.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"lifedash/internal/service"
)

// APIResponse is the common response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Options configures the server.
type Options struct {
	Widgets       *service.WidgetService
	Agenda        *service.AgendaService
	Notifications *service.NotificationService
	Logger        zerolog.Logger

	// BearerToken enables auth when non-empty.
	BearerToken string
}

// Server is the HTTP surface of the dashboard.
type Server struct {
	widgets       *service.WidgetService
	agenda        *service.AgendaService
	notifications *service.NotificationService
	log           zerolog.Logger
	bearerToken   string
	router        *mux.Router
	httpServer    *http.Server
}

func New(opts Options) *Server {
	s := &Server{
		widgets:       opts.Widgets,
		agenda:        opts.Agenda,
		notifications: opts.Notifications,
		log:           opts.Logger,
		bearerToken:   opts.BearerToken,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/calendar.ics", s.auth(s.handleICS)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tabs", s.auth(s.handleListTabs)).Methods(http.MethodGet)
	api.HandleFunc("/tabs", s.auth(s.handleCreateTab)).Methods(http.MethodPost)
	api.HandleFunc("/tabs/{id}", s.auth(s.handleRenameTab)).Methods(http.MethodPatch)
	api.HandleFunc("/tabs/{id}", s.auth(s.handleDeleteTab)).Methods(http.MethodDelete)
	api.HandleFunc("/tabs/{id}/widgets", s.auth(s.handleCreateWidget)).Methods(http.MethodPost)
	api.HandleFunc("/widgets/{id}", s.auth(s.handleUpdateWidget)).Methods(http.MethodPatch)
	api.HandleFunc("/widgets/{id}", s.auth(s.handleDeleteWidget)).Methods(http.MethodDelete)
	api.HandleFunc("/agenda", s.auth(s.handleAgenda)).Methods(http.MethodGet)
	api.HandleFunc("/agenda/{date}", s.auth(s.handleAgendaDay)).Methods(http.MethodGet)
	api.HandleFunc("/notifications", s.auth(s.handleListNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}", s.auth(s.handleDismissNotification)).Methods(http.MethodDelete)
	return r
}

// Handler returns the root handler (tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server until ctx is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", addr).Msg("api server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// auth is a bearer-token middleware; a no-op when no token is configured.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	if s.bearerToken == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.bearerToken {
			s.jsonError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func (s *Server) jsonError(w http.ResponseWriter, err string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: err})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, map[string]string{"status": "ok"})
}
