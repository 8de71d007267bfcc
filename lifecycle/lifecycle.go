package lifecycle

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"taskflow/models"
)

// UpdateRequest is a partial task update. A nil member means the caller did
// not send that field; a non-nil member is applied even when it holds the
// zero value.
type UpdateRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Priority     *string   `json:"priority"`
	Tags         *[]string `json:"tags"`
	Due          *string   `json:"due"`
	Time         *string   `json:"time"`
	Status       *string   `json:"status"`
	Completed    *bool     `json:"completed"`
	ManualStatus *bool     `json:"manualStatus"`
}

// Apply computes the fields to persist for an update against the task's
// current state. The result is a $set document always containing updated_at.
// Apply never fails: malformed values are coerced to safe defaults.
//
// The status branch runs first, then the explicit completed flag, which may
// override the status the caller asked for. That ordering matches the
// observed behavior of the API and is relied on by existing clients.
func Apply(task models.Task, req UpdateRequest, now time.Time) bson.M {
	fields := bson.M{}

	applyDescriptive(fields, req)

	if req.Status != nil {
		applyStatus(fields, task, req, now)
	}

	if req.Completed != nil {
		applyCompletedFlag(fields, task, *req.Completed, now)
	}

	fields["updated_at"] = now
	return fields
}

func applyStatus(fields bson.M, task models.Task, req UpdateRequest, now time.Time) {
	switch *req.Status {
	case models.StatusInProgress:
		fields["status"] = models.StatusInProgress
		// Re-entering In Progress restamps the milestone.
		fields["in_progress_at"] = now
		fields["manual_status"] = manualOrDefault(req.ManualStatus)

	case models.StatusCompleted:
		if task.Status == models.StatusCompleted {
			return
		}
		fields["status"] = models.StatusCompleted
		fields["completed"] = true
		fields["completed_at"] = now
		if task.InProgressAt == nil {
			fields["in_progress_at"] = startFallback(task, now)
		}
		fields["manual_status"] = manualOrDefault(req.ManualStatus)

	case models.StatusOverdue:
		if task.Status == models.StatusOverdue {
			return
		}
		fields["status"] = models.StatusOverdue
		fields["overdue_at"] = now
		// Overdue is always system-derived.
		fields["manual_status"] = false

	case models.StatusActive:
		fields["status"] = models.StatusActive
		fields["completed"] = false
		fields["completed_at"] = nil
		fields["overdue_at"] = nil
		fields["in_progress_at"] = nil
		fields["manual_status"] = manualOrDefault(req.ManualStatus)
	}
	// Unknown status strings fall through untouched.
}

func applyCompletedFlag(fields bson.M, task models.Task, completed bool, now time.Time) {
	if completed {
		if task.CompletedAt != nil {
			return
		}
		fields["completed"] = true
		fields["completed_at"] = now
		fields["status"] = models.StatusCompleted
		if task.InProgressAt == nil {
			fields["in_progress_at"] = startFallback(task, now)
		}
	} else {
		fields["completed"] = false
		fields["completed_at"] = nil
		fields["status"] = models.StatusActive
		fields["overdue_at"] = nil
		fields["in_progress_at"] = nil
	}
}

func applyDescriptive(fields bson.M, req UpdateRequest) {
	if req.Title != nil {
		fields["title"] = SanitizeTitle(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		fields["category"] = SanitizeCategory(*req.Category)
	}
	if req.Priority != nil {
		fields["priority"] = SanitizePriority(*req.Priority)
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.Time != nil {
		fields["time"] = *req.Time
	}
	if req.Due != nil {
		if due, ok := ParseDue(*req.Due); ok {
			fields["due"] = due
		} else {
			fields["due"] = nil
		}
	}
}

// startFallback picks the start point backfilled into in_progress_at when a
// task completes without ever having been In Progress.
func startFallback(task models.Task, now time.Time) time.Time {
	if !task.CreatedAt.IsZero() {
		return task.CreatedAt
	}
	return now
}

func manualOrDefault(manual *bool) bool {
	if manual != nil {
		return *manual
	}
	return true
}

// ParseDue parses a due value sent by a client. Both full timestamps and
// bare dates are accepted. Unparsable input reports ok=false; the caller
// stores null rather than rejecting the request.
func ParseDue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.DefaultTitle
	}
	return title
}

func SanitizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.DefaultCategory
	}
	return category
}

func SanitizePriority(priority string) string {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return priority
	}
	return models.PriorityMedium
}
