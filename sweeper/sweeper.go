// Package sweeper marks tasks Overdue once their due date passes. It is the
// only actor that requests the Overdue transition; users never set it.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/metric"

	"taskflow/config"
	"taskflow/lifecycle"
	"taskflow/logging"
	"taskflow/models"
)

type Sweeper struct {
	store    *config.Store
	interval time.Duration
	swept    metric.Float64Counter
}

func New(store *config.Store, interval time.Duration) *Sweeper {
	counter, _ := logging.InitializeFloatCounter("sweeper_tasks_overdue",
		"Number of tasks marked overdue by the sweeper", "Task")
	return &Sweeper{store: store, interval: interval, swept: counter}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Log("sweeper stopping", slog.LevelInfo)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Completed and already-overdue tasks are left alone.
	filter := bson.M{
		"due":       bson.M{"$ne": nil, "$lt": now},
		"completed": false,
		"status":    bson.M{"$in": []string{models.StatusActive, models.StatusInProgress}},
	}

	cursor, err := s.store.Tasks().Find(ctx, filter)
	if err != nil {
		logging.Log("sweep query failed", slog.LevelError, "error", err.Error())
		return
	}
	defer cursor.Close(ctx)

	overdue := models.StatusOverdue
	var marked int
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			logging.Log("sweep decode failed", slog.LevelError, "error", err.Error())
			continue
		}

		fields := lifecycle.Apply(task, lifecycle.UpdateRequest{Status: &overdue}, now)
		_, err := s.store.Tasks().UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": fields})
		if err != nil {
			logging.Log("sweep update failed", slog.LevelError,
				"task_id", task.ID.Hex(), "error", err.Error())
			continue
		}

		s.notify(ctx, task)
		marked++
	}

	if marked > 0 {
		if s.swept != nil {
			s.swept.Add(ctx, float64(marked))
		}
		logging.Log("sweep complete", slog.LevelInfo, "marked_overdue", marked)
	}
}

func (s *Sweeper) notify(ctx context.Context, task models.Task) {
	notification := models.Notification{
		UserID:    task.UserID,
		TaskID:    task.ID.Hex(),
		Message:   `Task "` + task.Title + `" is overdue`,
		CreatedAt: time.Now(),
	}
	if _, err := s.store.Notifications().InsertOne(ctx, notification); err != nil {
		logging.Log("failed to write overdue notification", slog.LevelWarn,
			"task_id", task.ID.Hex(), "error", err.Error())
	}
}
