package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lifedash/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound marks a mutation that targeted a non-existent row.
var ErrNotFound = errors.New("not found")

// Storage persists the dashboard snapshot: tabs and their widgets. Widget
// content is stored as a JSON column keyed by kind, mirroring the wire
// contract of the dashboard UI.
type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tabs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS widgets (
			id TEXT PRIMARY KEY,
			tab_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '{}',
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (tab_id) REFERENCES tabs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_widgets_tab_id ON widgets(tab_id)`,
		`CREATE INDEX IF NOT EXISTS idx_widgets_kind ON widgets(kind)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// LoadSnapshot returns all tabs with their widgets, both in stored order.
// A widget whose content no longer parses is skipped rather than failing
// the whole load.
func (s *Storage) LoadSnapshot() ([]domain.Tab, error) {
	rows, err := s.db.Query(`SELECT id, name FROM tabs ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	defer rows.Close()

	var tabs []domain.Tab
	for rows.Next() {
		var t domain.Tab
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		tabs = append(tabs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tabs: %w", err)
	}

	for i := range tabs {
		widgets, err := s.listWidgets(tabs[i].ID)
		if err != nil {
			return nil, err
		}
		tabs[i].Widgets = widgets
	}
	return tabs, nil
}

func (s *Storage) listWidgets(tabID string) ([]domain.Widget, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, title, content FROM widgets WHERE tab_id = ? ORDER BY position, created_at`,
		tabID,
	)
	if err != nil {
		return nil, fmt.Errorf("query widgets: %w", err)
	}
	defer rows.Close()

	var widgets []domain.Widget
	for rows.Next() {
		var w domain.Widget
		var content string
		if err := rows.Scan(&w.ID, &w.Kind, &w.Title, &content); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		if err := w.SetContentJSON(content); err != nil {
			continue
		}
		widgets = append(widgets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate widgets: %w", err)
	}
	return widgets, nil
}

// CountTabs returns the number of stored tabs.
func (s *Storage) CountTabs() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tabs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tabs: %w", err)
	}
	return n, nil
}

// CreateTab appends a tab at the end of the tab order.
func (s *Storage) CreateTab(t *domain.Tab) error {
	_, err := s.db.Exec(
		`INSERT INTO tabs (id, name, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tabs))`,
		t.ID, t.Name,
	)
	if err != nil {
		return fmt.Errorf("insert tab: %w", err)
	}
	return nil
}

// GetTab returns a tab without its widgets, or nil when absent.
func (s *Storage) GetTab(id string) (*domain.Tab, error) {
	var t domain.Tab
	err := s.db.QueryRow(`SELECT id, name FROM tabs WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tab: %w", err)
	}
	return &t, nil
}

func (s *Storage) RenameTab(id, name string) error {
	res, err := s.db.Exec(`UPDATE tabs SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename tab: %w", err)
	}
	return requireRow(res, "tab")
}

// DeleteTab removes a tab and, via the cascade, its widgets.
func (s *Storage) DeleteTab(id string) error {
	res, err := s.db.Exec(`DELETE FROM tabs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tab: %w", err)
	}
	return requireRow(res, "tab")
}

// CreateWidget appends a widget to a tab.
func (s *Storage) CreateWidget(tabID string, w *domain.Widget) error {
	content, err := w.ContentJSON()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO widgets (id, tab_id, kind, title, content, position)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM widgets WHERE tab_id = ?))`,
		w.ID, tabID, w.Kind, w.Title, content, tabID,
	)
	if err != nil {
		return fmt.Errorf("insert widget: %w", err)
	}
	return nil
}

// GetWidget returns a widget and its owning tab id, or nil when absent.
func (s *Storage) GetWidget(id string) (*domain.Widget, string, error) {
	var w domain.Widget
	var tabID, content string
	err := s.db.QueryRow(
		`SELECT id, tab_id, kind, title, content FROM widgets WHERE id = ?`, id,
	).Scan(&w.ID, &tabID, &w.Kind, &w.Title, &content)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get widget: %w", err)
	}
	if err := w.SetContentJSON(content); err != nil {
		return nil, "", fmt.Errorf("parse widget content: %w", err)
	}
	return &w, tabID, nil
}

func (s *Storage) UpdateWidgetTitle(id, title string) error {
	res, err := s.db.Exec(`UPDATE widgets SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("update widget title: %w", err)
	}
	return requireRow(res, "widget")
}

// UpdateWidgetContent replaces the JSON payload of a widget.
func (s *Storage) UpdateWidgetContent(id, content string) error {
	res, err := s.db.Exec(`UPDATE widgets SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("update widget content: %w", err)
	}
	return requireRow(res, "widget")
}

func (s *Storage) DeleteWidget(id string) error {
	res, err := s.db.Exec(`DELETE FROM widgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return requireRow(res, "widget")
}

func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
