package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, "a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	identity, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if identity.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, identity.UserID)
	}
	if identity.Email != "a@x.com" {
		t.Errorf("Expected email 'a@x.com', got %q", identity.Email)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTAuth("secret-one").GenerateToken(uuid.New(), "a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTAuth("secret-two").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for a token signed with a different secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	claims := jwt.MapClaims{
		"id":    uuid.NewString(),
		"email": "a@x.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
		"iat":   time.Now().Add(-25 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.Secret)
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}

	if _, err := auth.ValidateToken(expired); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected validation to fail for a malformed token")
	}
}

func TestMiddleware(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != userID {
			t.Errorf("Expected user ID %s in context, got %s", userID, got)
		}
		if got := GetEmail(r.Context()); got != "a@x.com" {
			t.Errorf("Expected email 'a@x.com' in context, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		expected   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"tampered token", "Bearer " + token + "x", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, rr.Code)
			}
			if tc.expected == http.StatusUnauthorized {
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode error body: %v", err)
				}
				if body["error"] == "" {
					t.Error("Expected an error message in the body")
				}
			}
		})
	}
}
