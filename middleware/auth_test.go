package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/utils"
)

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called without authorization")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/task/list", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called with invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewarePassesUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateJwt("user-42")
	if err != nil {
		t.Fatalf("GenerateJwt failed: %v", err)
	}

	called := false
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if got := r.Context().Value("user_id"); got != "user-42" {
			t.Errorf("user_id in context = %v, want user-42", got)
		}
		if id, ok := r.Context().Value("request_id").(string); !ok || id == "" {
			t.Error("request_id missing from context")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !called {
		t.Fatal("handler not called for valid token")
	}
}
