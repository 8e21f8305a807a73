package domain

import "time"

// Notification is a transient, user-dismissable message. Notifications live
// only in memory and disappear on dismissal or restart.
type Notification struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Body  string     `json:"body"`
	Time  *time.Time `json:"time,omitempty"`
}
