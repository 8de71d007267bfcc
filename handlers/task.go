package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"taskflow/lifecycle"
	"taskflow/logging"
	"taskflow/models"
	"taskflow/utils"
)

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	Due         string   `json:"due"`
	Time        string   `json:"time"`
}

type UpdateTaskRequest struct {
	ID string `json:"id"`
	lifecycle.UpdateRequest
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	now := time.Now()
	task := models.Task{
		UserID:      userID,
		Title:       lifecycle.SanitizeTitle(req.Title),
		Description: req.Description,
		Category:    lifecycle.SanitizeCategory(req.Category),
		Priority:    lifecycle.SanitizePriority(req.Priority),
		Tags:        req.Tags,
		Time:        req.Time,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Tags == nil {
		task.Tags = []string{}
	}
	if due, ok := lifecycle.ParseDue(req.Due); ok {
		task.Due = &due
	}

	collection := h.Store.Tasks()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := collection.InsertOne(ctx, task)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.ResponseWithError(w, http.StatusConflict, "Task already exists")
		} else {
			utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to create task")
		}
		return
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	h.syncCalendar(ctx, &task)

	utils.ResponseWithJson(w, http.StatusCreated, task)
}

func (h *Handler) ListAllTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	collection := h.Store.Tasks()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	defer cursor.Close(ctx)

	allTasks := []models.Task{}
	if err = cursor.All(ctx, &allTasks); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to decode tasks")
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, allTasks)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	objectID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	collection := h.Store.Tasks()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": objectID, "user_id": userID}

	var task models.Task
	err = collection.FindOne(ctx, filter).Decode(&task)
	if err == mongo.ErrNoDocuments {
		utils.ResponseWithError(w, http.StatusNotFound, "Task not found")
		return
	} else if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	fields := lifecycle.Apply(task, req.UpdateRequest, time.Now())

	if _, err := collection.UpdateOne(ctx, filter, bson.M{"$set": fields}); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to update the task")
		return
	}

	var updated models.Task
	if err := collection.FindOne(ctx, filter).Decode(&updated); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to fetch updated task")
		return
	}

	h.syncCalendar(ctx, &updated)

	utils.ResponseWithJson(w, http.StatusOK, updated)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	id := r.URL.Query().Get("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	collection := h.Store.Tasks()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": objectID, "user_id": userID}

	var task models.Task
	err = collection.FindOne(ctx, filter).Decode(&task)
	if err == mongo.ErrNoDocuments {
		utils.ResponseWithError(w, http.StatusNotFound, "Task not found")
		return
	} else if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := collection.DeleteOne(ctx, filter); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	if h.Calendar != nil && task.GoogleEventID != "" {
		if err := h.Calendar.DeleteEvent(task.GoogleEventID); err != nil {
			logging.Log("failed to delete calendar event", slog.LevelWarn,
				"task_id", task.ID.Hex(), "error", err.Error())
		}
	}

	utils.ResponseWithJson(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// syncCalendar pushes the task to Google Calendar and records the event id.
// Sync failures are logged, never surfaced to the client.
func (h *Handler) syncCalendar(ctx context.Context, task *models.Task) {
	if h.Calendar == nil {
		return
	}

	eventID, err := h.Calendar.SyncTask(*task)
	if err != nil {
		logging.Log("calendar sync failed", slog.LevelWarn,
			"task_id", task.ID.Hex(), "error", err.Error())
		return
	}
	if eventID == task.GoogleEventID {
		return
	}

	task.GoogleEventID = eventID
	_, err = h.Store.Tasks().UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$set": bson.M{"google_event_id": eventID}})
	if err != nil {
		logging.Log("failed to store calendar event id", slog.LevelWarn,
			"task_id", task.ID.Hex(), "error", err.Error())
	}
}
