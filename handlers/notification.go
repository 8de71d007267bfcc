package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow/models"
	"taskflow/utils"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	collection := h.Store.Notifications()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to decode notifications")
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	objectID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	collection := h.Store.Notifications()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if result.MatchedCount == 0 {
		utils.ResponseWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	objectID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		utils.ResponseWithError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	collection := h.Store.Notifications()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID, "user_id": userID})
	if err != nil {
		utils.ResponseWithError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if result.DeletedCount == 0 {
		utils.ResponseWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.ResponseWithJson(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
