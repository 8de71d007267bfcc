package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"taskflow/logging"
	"taskflow/utils"
)

func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.ResponseWithError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		userID, err := utils.ValidateJwt(tokenString)
		if err != nil {
			utils.ResponseWithError(w, http.StatusUnauthorized, "Invalid Token")
			return
		}

		requestID := uuid.New().String()
		logging.Log("request", slog.LevelInfo,
			"request_id", requestID, "method", r.Method, "path", r.URL.Path, "user_id", userID)

		ctx := context.WithValue(r.Context(), "user_id", userID)
		ctx = context.WithValue(ctx, "request_id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
