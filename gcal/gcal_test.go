package gcal

import (
	"testing"
	"time"

	"taskflow/models"
)

func TestEventForTaskAllDay(t *testing.T) {
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	task := models.Task{Title: "File taxes", Due: &due}

	event := eventForTask(task)

	if event.Start.Date != "2025-04-01" || event.Start.DateTime != "" {
		t.Errorf("start = %+v, want all-day date", event.Start)
	}
	if event.Summary != "File taxes" {
		t.Errorf("summary = %q", event.Summary)
	}
}

func TestEventForTaskTimed(t *testing.T) {
	due := time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)
	task := models.Task{Title: "Standup", Due: &due, Status: models.StatusInProgress}

	event := eventForTask(task)

	if event.Start.DateTime != "2025-04-01T14:30:00Z" {
		t.Errorf("start = %q", event.Start.DateTime)
	}
	if event.End.DateTime != "2025-04-01T15:00:00Z" {
		t.Errorf("end = %q", event.End.DateTime)
	}
	if event.Summary != "‣ Standup" {
		t.Errorf("summary = %q", event.Summary)
	}
}

func TestEventForTaskStatusPrefixes(t *testing.T) {
	due := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		status string
		want   string
	}{
		{models.StatusCompleted, "✓ Review PR"},
		{models.StatusOverdue, "! Review PR"},
		{models.StatusActive, "Review PR"},
	}
	for _, tt := range tests {
		event := eventForTask(models.Task{Title: "Review PR", Status: tt.status, Due: &due})
		if event.Summary != tt.want {
			t.Errorf("status %q: summary = %q, want %q", tt.status, event.Summary, tt.want)
		}
	}
}
