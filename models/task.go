package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. Overdue is never chosen by a user; it is derived by the
// lifecycle rules or the background sweeper.
const (
	StatusActive     = "Active"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOverdue    = "Overdue"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	DefaultTitle    = "Untitled Task"
	DefaultCategory = "Uncategorized"
)

type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"userId"` // Reference to User _id
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description"`
	Category      string             `bson:"category" json:"category"`
	Priority      string             `bson:"priority" json:"priority"`
	Tags          []string           `bson:"tags" json:"tags"`
	Due           *time.Time         `bson:"due" json:"due"`
	Time          string             `bson:"time,omitempty" json:"time"`
	Status        string             `bson:"status" json:"status"`
	Completed     bool               `bson:"completed" json:"completed"`
	ManualStatus  bool               `bson:"manual_status" json:"manualStatus"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
	InProgressAt  *time.Time         `bson:"in_progress_at" json:"inProgressAt"`
	CompletedAt   *time.Time         `bson:"completed_at" json:"completedAt"`
	OverdueAt     *time.Time         `bson:"overdue_at" json:"overdueAt"`
	GoogleEventID string             `bson:"google_event_id,omitempty" json:"googleEventId,omitempty"`
}
