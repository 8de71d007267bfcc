package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJwt("user-123")
	if err != nil {
		t.Fatalf("GenerateJwt failed: %v", err)
	}

	userID, err := ValidateJwt(token)
	if err != nil {
		t.Fatalf("ValidateJwt failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestValidateJwtRejectsGarbage(t *testing.T) {
	if _, err := ValidateJwt("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateJwtRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateJwt("user-123")
	if err != nil {
		t.Fatalf("GenerateJwt failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ValidateJwt(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}
