package lifecycle

import (
	"testing"
	"time"

	"taskflow/models"
)

var now = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestApplyStatusInProgress(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)
	task := models.Task{
		Status:       models.StatusActive,
		CreatedAt:    earlier,
		InProgressAt: &earlier,
	}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusInProgress)}, now)

	if fields["status"] != models.StatusInProgress {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusInProgress)
	}
	// The milestone is restamped even though it was already set.
	if fields["in_progress_at"] != now {
		t.Errorf("in_progress_at = %v, want %v", fields["in_progress_at"], now)
	}
	if fields["manual_status"] != true {
		t.Errorf("manual_status = %v, want true", fields["manual_status"])
	}
	if fields["updated_at"] != now {
		t.Errorf("updated_at = %v, want %v", fields["updated_at"], now)
	}
}

func TestApplyStatusCompleted(t *testing.T) {
	created := now.Add(-72 * time.Hour)
	task := models.Task{Status: models.StatusActive, CreatedAt: created}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusCompleted)}, now)

	if fields["status"] != models.StatusCompleted {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusCompleted)
	}
	if fields["completed"] != true {
		t.Errorf("completed = %v, want true", fields["completed"])
	}
	if fields["completed_at"] != now {
		t.Errorf("completed_at = %v, want %v", fields["completed_at"], now)
	}
	// Never started, so the start point backfills from creation.
	if fields["in_progress_at"] != created {
		t.Errorf("in_progress_at = %v, want %v", fields["in_progress_at"], created)
	}
}

func TestApplyStatusCompletedIdempotent(t *testing.T) {
	completedAt := now.Add(-time.Hour)
	task := models.Task{
		Status:      models.StatusCompleted,
		Completed:   true,
		CompletedAt: &completedAt,
	}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusCompleted)}, now)

	if _, ok := fields["completed_at"]; ok {
		t.Error("completed_at restamped on already-completed task")
	}
	if _, ok := fields["status"]; ok {
		t.Error("status written on already-completed task")
	}
	if fields["updated_at"] != now {
		t.Errorf("updated_at = %v, want %v", fields["updated_at"], now)
	}
}

func TestApplyStatusCompletedBackfillWithoutCreatedAt(t *testing.T) {
	fields := Apply(models.Task{Status: models.StatusActive}, UpdateRequest{Status: strptr(models.StatusCompleted)}, now)

	if fields["in_progress_at"] != now {
		t.Errorf("in_progress_at = %v, want %v (fallback to now)", fields["in_progress_at"], now)
	}
}

func TestApplyStatusOverdue(t *testing.T) {
	task := models.Task{Status: models.StatusActive, ManualStatus: true}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusOverdue), ManualStatus: boolptr(true)}, now)

	if fields["status"] != models.StatusOverdue {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusOverdue)
	}
	if fields["overdue_at"] != now {
		t.Errorf("overdue_at = %v, want %v", fields["overdue_at"], now)
	}
	// Overdue is system-derived even when the payload claims otherwise.
	if fields["manual_status"] != false {
		t.Errorf("manual_status = %v, want false", fields["manual_status"])
	}
}

func TestApplyStatusOverdueIdempotent(t *testing.T) {
	overdueAt := now.Add(-time.Hour)
	task := models.Task{Status: models.StatusOverdue, OverdueAt: &overdueAt}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusOverdue)}, now)

	if _, ok := fields["overdue_at"]; ok {
		t.Error("overdue_at restamped on already-overdue task")
	}
}

func TestApplyStatusActiveClearsMilestones(t *testing.T) {
	earlier := now.Add(-time.Hour)
	task := models.Task{
		Status:       models.StatusCompleted,
		Completed:    true,
		InProgressAt: &earlier,
		CompletedAt:  &earlier,
		OverdueAt:    &earlier,
	}

	fields := Apply(task, UpdateRequest{Status: strptr(models.StatusActive)}, now)

	if fields["status"] != models.StatusActive {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusActive)
	}
	if fields["completed"] != false {
		t.Errorf("completed = %v, want false", fields["completed"])
	}
	for _, key := range []string{"completed_at", "overdue_at", "in_progress_at"} {
		v, ok := fields[key]
		if !ok {
			t.Errorf("%s not written", key)
			continue
		}
		if v != nil {
			t.Errorf("%s = %v, want nil", key, v)
		}
	}
}

func TestApplyCompletedFlagTrue(t *testing.T) {
	created := now.Add(-24 * time.Hour)
	task := models.Task{Status: models.StatusInProgress, CreatedAt: created}

	fields := Apply(task, UpdateRequest{Completed: boolptr(true)}, now)

	if fields["status"] != models.StatusCompleted {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusCompleted)
	}
	if fields["completed"] != true {
		t.Errorf("completed = %v, want true", fields["completed"])
	}
	if fields["completed_at"] != now {
		t.Errorf("completed_at = %v, want %v", fields["completed_at"], now)
	}
	if fields["in_progress_at"] != created {
		t.Errorf("in_progress_at = %v, want backfill to %v", fields["in_progress_at"], created)
	}
}

func TestApplyCompletedFlagTrueAlreadyStamped(t *testing.T) {
	completedAt := now.Add(-time.Hour)
	task := models.Task{Status: models.StatusCompleted, Completed: true, CompletedAt: &completedAt}

	fields := Apply(task, UpdateRequest{Completed: boolptr(true)}, now)

	if _, ok := fields["completed_at"]; ok {
		t.Error("completed_at restamped when already set")
	}
}

func TestApplyCompletedFlagFalse(t *testing.T) {
	earlier := now.Add(-time.Hour)
	task := models.Task{
		Status:       models.StatusCompleted,
		Completed:    true,
		InProgressAt: &earlier,
		CompletedAt:  &earlier,
	}

	fields := Apply(task, UpdateRequest{Completed: boolptr(false)}, now)

	if fields["status"] != models.StatusActive {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusActive)
	}
	if fields["completed"] != false {
		t.Errorf("completed = %v, want false", fields["completed"])
	}
	for _, key := range []string{"completed_at", "overdue_at", "in_progress_at"} {
		if v := fields[key]; v != nil {
			t.Errorf("%s = %v, want nil", key, v)
		}
	}
}

// A payload carrying both a non-Completed status and completed:true ends up
// Completed: the completed flag runs second and overrides the status branch.
// Long-standing behavior that clients depend on.
func TestApplyCompletedFlagOverridesStatus(t *testing.T) {
	task := models.Task{Status: models.StatusActive, CreatedAt: now.Add(-time.Hour)}

	fields := Apply(task, UpdateRequest{
		Status:    strptr(models.StatusInProgress),
		Completed: boolptr(true),
	}, now)

	if fields["status"] != models.StatusCompleted {
		t.Errorf("status = %v, want %q", fields["status"], models.StatusCompleted)
	}
	if fields["in_progress_at"] != now {
		t.Errorf("in_progress_at = %v, want %v (status branch ran first)", fields["in_progress_at"], now)
	}
}

func TestApplyUnknownStatusIgnored(t *testing.T) {
	fields := Apply(models.Task{Status: models.StatusActive}, UpdateRequest{Status: strptr("Archived")}, now)

	if _, ok := fields["status"]; ok {
		t.Errorf("unknown status written: %v", fields["status"])
	}
	if fields["updated_at"] != now {
		t.Errorf("updated_at = %v, want %v", fields["updated_at"], now)
	}
}

func TestApplyDescriptiveFields(t *testing.T) {
	tags := []string{"home", "urgent"}
	fields := Apply(models.Task{}, UpdateRequest{
		Title:       strptr("  Water plants  "),
		Description: strptr(" weekly "),
		Category:    strptr(""),
		Priority:    strptr("Critical"),
		Tags:        &tags,
	}, now)

	if fields["title"] != "Water plants" {
		t.Errorf("title = %q", fields["title"])
	}
	if fields["description"] != "weekly" {
		t.Errorf("description = %q", fields["description"])
	}
	if fields["category"] != models.DefaultCategory {
		t.Errorf("category = %q, want %q", fields["category"], models.DefaultCategory)
	}
	if fields["priority"] != models.PriorityMedium {
		t.Errorf("priority = %q, want %q", fields["priority"], models.PriorityMedium)
	}
}

func TestApplyDueCoercion(t *testing.T) {
	fields := Apply(models.Task{}, UpdateRequest{Due: strptr("not a date")}, now)
	v, ok := fields["due"]
	if !ok {
		t.Fatal("due not written")
	}
	if v != nil {
		t.Errorf("due = %v, want nil for unparsable input", v)
	}

	fields = Apply(models.Task{}, UpdateRequest{Due: strptr("2025-04-01")}, now)
	due, ok := fields["due"].(time.Time)
	if !ok {
		t.Fatalf("due = %T, want time.Time", fields["due"])
	}
	if due.Year() != 2025 || due.Month() != time.April || due.Day() != 1 {
		t.Errorf("due = %v", due)
	}
}

func TestParseDue(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2025-03-10T15:04:05Z", true},
		{"2025-03-10T15:04:05+02:00", true},
		{"2025-03-10T15:04:05", true},
		{"2025-03-10", true},
		{"  2025-03-10  ", true},
		{"", false},
		{"tomorrow", false},
		{"10/03/2025", false},
	}
	for _, tt := range tests {
		if _, ok := ParseDue(tt.in); ok != tt.ok {
			t.Errorf("ParseDue(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

// completed and status must agree after any sequence of updates.
func TestCompletedStatusConsistency(t *testing.T) {
	payloads := []UpdateRequest{
		{Status: strptr(models.StatusInProgress)},
		{Status: strptr(models.StatusCompleted)},
		{Completed: boolptr(true)},
		{Completed: boolptr(false)},
		{Status: strptr(models.StatusActive)},
	}

	task := models.Task{Status: models.StatusActive, CreatedAt: now.Add(-time.Hour)}
	for _, p := range payloads {
		fields := Apply(task, p, now)
		merge(&task, fields)
		if task.Completed != (task.Status == models.StatusCompleted) {
			t.Fatalf("inconsistent after %+v: completed=%v status=%q", p, task.Completed, task.Status)
		}
	}
}

// merge folds an Apply result back onto an in-memory task, mirroring what
// the store's $set does.
func merge(task *models.Task, fields map[string]interface{}) {
	if v, ok := fields["status"]; ok {
		task.Status = v.(string)
	}
	if v, ok := fields["completed"]; ok {
		task.Completed = v.(bool)
	}
	setTime := func(dst **time.Time, key string) {
		v, ok := fields[key]
		if !ok {
			return
		}
		if v == nil {
			*dst = nil
			return
		}
		t := v.(time.Time)
		*dst = &t
	}
	setTime(&task.InProgressAt, "in_progress_at")
	setTime(&task.CompletedAt, "completed_at")
	setTime(&task.OverdueAt, "overdue_at")
	if v, ok := fields["manual_status"]; ok {
		task.ManualStatus = v.(bool)
	}
	if v, ok := fields["updated_at"]; ok {
		task.UpdatedAt = v.(time.Time)
	}
}
