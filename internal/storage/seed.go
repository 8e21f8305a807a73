package storage

import "lifedash/internal/domain"

// Seed installs the default snapshot on first run: an empty dashboard tab,
// a planner tab and a settings tab. It is a no-op when tabs already exist.
func (s *Storage) Seed() error {
	n, err := s.CountTabs()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tabs := []domain.Tab{
		{ID: "dashboard", Name: "Dashboard"},
		{
			ID:   "planner",
			Name: "Planner",
			Widgets: []domain.Widget{
				{
					ID:       "planner_week",
					Kind:     domain.KindSchedule,
					Title:    "Weekly Schedule",
					Schedule: &domain.ScheduleContent{},
				},
				{
					ID:          "planner_appt",
					Kind:        domain.KindAppointment,
					Title:       "Appointment",
					Appointment: &domain.AppointmentContent{Recurrence: domain.RecurNone},
				},
				{
					ID:        "planner_todo",
					Kind:      domain.KindChecklist,
					Title:     "To Do",
					Checklist: &domain.ChecklistContent{},
				},
			},
		},
		{
			ID:   "notes",
			Name: "Notes",
			Widgets: []domain.Widget{
				{ID: "notes_scratch", Kind: domain.KindNote, Title: "Scratchpad"},
			},
		},
		{
			ID:   "settings",
			Name: "Settings",
			Widgets: []domain.Widget{
				{ID: "settings_keys", Kind: domain.KindSettings, Title: "API Keys & Voice Settings"},
			},
		},
	}

	for i := range tabs {
		if err := s.CreateTab(&tabs[i]); err != nil {
			return err
		}
		for j := range tabs[i].Widgets {
			if err := s.CreateWidget(tabs[i].ID, &tabs[i].Widgets[j]); err != nil {
				return err
			}
		}
	}
	return nil
}
