package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"lifedash/internal/domain"
)

// NotificationService is the in-memory notification center. Notifications
// are transient: they live until dismissed and are lost on restart.
type NotificationService struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Add creates and stores a notification, returning it with its assigned id.
func (s *NotificationService) Add(title, body string, at *time.Time) domain.Notification {
	n := domain.Notification{
		ID:    uuid.NewString(),
		Title: title,
		Body:  body,
		Time:  at,
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()
	return n
}

// List returns all pending notifications, newest first.
func (s *NotificationService) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Notification, 0, len(s.notifications))
	for i := len(s.notifications) - 1; i >= 0; i-- {
		out = append(out, s.notifications[i])
	}
	return out
}

// Dismiss removes a notification by id. It reports whether one was removed.
func (s *NotificationService) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}
