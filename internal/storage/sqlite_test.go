package storage

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifedash/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTabRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	tab := &domain.Tab{ID: uuid.NewString(), Name: "Planner"}
	require.NoError(t, s.CreateTab(tab))

	got, err := s.GetTab(tab.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Planner", got.Name)

	require.NoError(t, s.RenameTab(tab.ID, "Week"))
	got, err = s.GetTab(tab.ID)
	require.NoError(t, err)
	assert.Equal(t, "Week", got.Name)

	require.NoError(t, s.DeleteTab(tab.ID))
	got, err = s.GetTab(tab.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRenameMissingTab(t *testing.T) {
	s := newTestStorage(t)
	assert.ErrorIs(t, s.RenameTab("missing", "x"), ErrNotFound)
}

func TestWidgetContentRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	tab := &domain.Tab{ID: uuid.NewString(), Name: "Planner"}
	require.NoError(t, s.CreateTab(tab))

	w := &domain.Widget{
		ID:    uuid.NewString(),
		Kind:  domain.KindAppointment,
		Title: "Dentist",
		Appointment: &domain.AppointmentContent{
			Date:       "2024-06-10",
			Time:       "09:00",
			Person:     "Dr. Lee",
			Location:   "Main St",
			Recurrence: domain.RecurNone,
		},
	}
	require.NoError(t, s.CreateWidget(tab.ID, w))

	got, tabID, err := s.GetWidget(w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tab.ID, tabID)
	require.NotNil(t, got.Appointment)
	assert.Equal(t, "2024-06-10", got.Appointment.Date)
	assert.Equal(t, "Dr. Lee", got.Appointment.Person)

	require.NoError(t, s.UpdateWidgetTitle(w.ID, "Checkup"))
	require.NoError(t, s.UpdateWidgetContent(w.ID, `{"date":"2024-07-01","time":"10:30","person":"","location":"","description":"","recurrence":"none"}`))

	got, _, err = s.GetWidget(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkup", got.Title)
	assert.Equal(t, "2024-07-01", got.Appointment.Date)
	assert.Equal(t, "10:30", got.Appointment.Time)
}

func TestDeleteTabCascadesToWidgets(t *testing.T) {
	s := newTestStorage(t)

	tab := &domain.Tab{ID: uuid.NewString(), Name: "Notes"}
	require.NoError(t, s.CreateTab(tab))

	w := &domain.Widget{ID: uuid.NewString(), Kind: domain.KindNote, Title: "Scratch", Note: "hello"}
	require.NoError(t, s.CreateWidget(tab.ID, w))

	require.NoError(t, s.DeleteTab(tab.ID))

	got, _, err := s.GetWidget(w.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadSnapshotPreservesOrder(t *testing.T) {
	s := newTestStorage(t)

	first := &domain.Tab{ID: uuid.NewString(), Name: "First"}
	second := &domain.Tab{ID: uuid.NewString(), Name: "Second"}
	require.NoError(t, s.CreateTab(first))
	require.NoError(t, s.CreateTab(second))

	a := &domain.Widget{ID: uuid.NewString(), Kind: domain.KindNote, Title: "A"}
	b := &domain.Widget{ID: uuid.NewString(), Kind: domain.KindNote, Title: "B"}
	require.NoError(t, s.CreateWidget(first.ID, a))
	require.NoError(t, s.CreateWidget(first.ID, b))

	tabs, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, "First", tabs[0].Name)
	assert.Equal(t, "Second", tabs[1].Name)
	require.Len(t, tabs[0].Widgets, 2)
	assert.Equal(t, "A", tabs[0].Widgets[0].Title)
	assert.Equal(t, "B", tabs[0].Widgets[1].Title)
	assert.Empty(t, tabs[1].Widgets)
}

func TestLoadSnapshotSkipsCorruptContent(t *testing.T) {
	s := newTestStorage(t)

	tab := &domain.Tab{ID: uuid.NewString(), Name: "Planner"}
	require.NoError(t, s.CreateTab(tab))

	good := &domain.Widget{ID: uuid.NewString(), Kind: domain.KindNote, Title: "Good", Note: "ok"}
	require.NoError(t, s.CreateWidget(tab.ID, good))

	bad := &domain.Widget{ID: uuid.NewString(), Kind: domain.KindNote, Title: "Bad"}
	require.NoError(t, s.CreateWidget(tab.ID, bad))
	require.NoError(t, s.UpdateWidgetContent(bad.ID, "{not json"))

	tabs, err := s.LoadSnapshot()
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	require.Len(t, tabs[0].Widgets, 1)
	assert.Equal(t, "Good", tabs[0].Widgets[0].Title)
}

func TestSeedOnlyRunsOnEmptyDatabase(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Seed())
	n, err := s.CountTabs()
	require.NoError(t, err)
	require.Greater(t, n, 0)

	require.NoError(t, s.Seed())
	again, err := s.CountTabs()
	require.NoError(t, err)
	assert.Equal(t, n, again)
}
