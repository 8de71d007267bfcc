package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"taskflow/analytics"
	"taskflow/models"
	"taskflow/utils"
)

// TaskAnalytics returns the derived summary for all of the caller's tasks.
// The aggregation itself is pure; this handler only fetches the snapshot.
func (h *Handler) TaskAnalytics(w http.ResponseWriter, r *http.Request) {
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

	tasks := []models.Task{}
	if err = cursor.All(ctx, &tasks); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to decode tasks")
		return
	}

	summary := analytics.Aggregate(tasks, time.Now(), time.Local)

	utils.ResponseWithJson(w, http.StatusOK, summary)
}
