package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lifedash/internal/domain"
	"lifedash/internal/storage"
)

// ErrNotFound is what handlers test against to map lookup failures; storage
// mutations produce it directly.
var ErrNotFound = storage.ErrNotFound

// WidgetService is the tab/widget CRUD layer over storage. Every mutation
// leaves the snapshot persisted; the caller reruns the derivation pipeline
// afterwards.
type WidgetService struct {
	storage *storage.Storage
}

func NewWidgetService(s *storage.Storage) *WidgetService {
	return &WidgetService{storage: s}
}

// Snapshot returns the full persisted tab/widget state.
func (s *WidgetService) Snapshot() ([]domain.Tab, error) {
	return s.storage.LoadSnapshot()
}

func (s *WidgetService) CreateTab(name string) (*domain.Tab, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tab name cannot be empty")
	}

	t := &domain.Tab{ID: uuid.NewString(), Name: name}
	if err := s.storage.CreateTab(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *WidgetService) RenameTab(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tab name cannot be empty")
	}
	return s.storage.RenameTab(id, name)
}

func (s *WidgetService) DeleteTab(id string) error {
	return s.storage.DeleteTab(id)
}

// CreateWidget adds a widget of the given kind with an empty payload of
// that kind, optionally overridden by contentJSON.
func (s *WidgetService) CreateWidget(tabID string, kind domain.WidgetKind, title, contentJSON string) (*domain.Widget, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("widget title cannot be empty")
	}
	if !domain.ValidKind(kind) {
		return nil, fmt.Errorf("unknown widget kind: %s", kind)
	}

	tab, err := s.storage.GetTab(tabID)
	if err != nil {
		return nil, err
	}
	if tab == nil {
		return nil, fmt.Errorf("tab %s: %w", tabID, ErrNotFound)
	}

	w := &domain.Widget{ID: uuid.NewString(), Kind: kind, Title: title}
	if contentJSON != "" {
		if err := w.SetContentJSON(contentJSON); err != nil {
			return nil, fmt.Errorf("invalid %s content: %w", kind, err)
		}
	}

	if err := s.storage.CreateWidget(tabID, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWidgetContent validates contentJSON against the widget's kind and
// persists it.
func (s *WidgetService) UpdateWidgetContent(id, contentJSON string) error {
	w, _, err := s.storage.GetWidget(id)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("widget %s: %w", id, ErrNotFound)
	}

	if err := w.SetContentJSON(contentJSON); err != nil {
		return fmt.Errorf("invalid %s content: %w", w.Kind, err)
	}
	normalized, err := w.ContentJSON()
	if err != nil {
		return err
	}
	return s.storage.UpdateWidgetContent(id, normalized)
}

func (s *WidgetService) UpdateWidgetTitle(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("widget title cannot be empty")
	}
	return s.storage.UpdateWidgetTitle(id, title)
}

func (s *WidgetService) DeleteWidget(id string) error {
	return s.storage.DeleteWidget(id)
}
