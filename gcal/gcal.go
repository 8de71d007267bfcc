// Package gcal mirrors tasks into a Google Calendar. It owns the
// google_event_id stored on a task; everything else treats that field as
// opaque.
package gcal

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"taskflow/models"
)

const defaultEventDuration = 30 * time.Minute

type Client struct {
	srv        *calendar.Service
	calendarID string
}

// NewFromEnv builds a client from GOOGLE_CREDENTIALS (path to a service
// account key) and GOOGLE_CALENDAR_ID. Returns nil without error when the
// credentials are not configured, so sync stays optional.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credsFile := os.Getenv("GOOGLE_CREDENTIALS")
	if credsFile == "" {
		return nil, nil
	}
	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	if calendarID == "" {
		calendarID = "primary"
	}

	b, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s: %w", credsFile, err)
	}
	conf, err := google.JWTConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}

	return &Client{srv: srv, calendarID: calendarID}, nil
}

// SyncTask creates or updates the calendar event for a task and returns the
// event id to store back on the task. Tasks without a due date have nothing
// to put on a calendar; their existing event, if any, is removed.
func (c *Client) SyncTask(task models.Task) (string, error) {
	if task.Due == nil {
		if task.GoogleEventID != "" {
			if err := c.DeleteEvent(task.GoogleEventID); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	event := eventForTask(task)

	if task.GoogleEventID != "" {
		updated, err := c.srv.Events.Patch(c.calendarID, task.GoogleEventID, event).Do()
		if err != nil {
			return "", fmt.Errorf("error patching event: %w", err)
		}
		return updated.Id, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("error inserting event: %w", err)
	}
	return created.Id, nil
}

func (c *Client) DeleteEvent(eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Do()
}

// eventForTask converts a task with a due date into a calendar event.
// A due date at local midnight with no time-of-day string becomes an
// all-day event; anything else becomes a timed half-hour slot.
func eventForTask(task models.Task) *calendar.Event {
	event := &calendar.Event{
		Summary:     summaryForTask(task),
		Description: task.Description,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				"taskflow_id": task.ID.Hex(),
			},
		},
	}

	due := *task.Due
	if task.Time == "" && due.Hour() == 0 && due.Minute() == 0 && due.Second() == 0 {
		day := due.Format("2006-01-02")
		event.Start = &calendar.EventDateTime{Date: day}
		event.End = &calendar.EventDateTime{Date: day}
		return event
	}

	event.Start = &calendar.EventDateTime{DateTime: due.UTC().Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: due.Add(defaultEventDuration).UTC().Format(time.RFC3339)}
	return event
}

func summaryForTask(task models.Task) string {
	switch task.Status {
	case models.StatusCompleted:
		return "✓ " + task.Title
	case models.StatusOverdue:
		return "! " + task.Title
	case models.StatusInProgress:
		return "‣ " + task.Title
	}
	return task.Title
}
