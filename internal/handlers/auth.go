package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fitchat-backend/internal/middleware"
	"fitchat-backend/internal/models"
	"fitchat-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout always succeeds. The token is stateless, so logging out is the
// client discarding its copy; nothing is invalidated server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the identity encoded in the caller's token. It sits behind the
// JWT middleware and is the one in-scope consumer of token validation.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PublicUser{
		ID:    middleware.GetUserID(r.Context()),
		Email: middleware.GetEmail(r.Context()),
	})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeError(w, http.StatusBadRequest, e.Message)
	case *services.ConflictError:
		writeError(w, http.StatusConflict, e.Message)
	case *services.UnauthorizedError:
		writeError(w, http.StatusUnauthorized, e.Message)
	default:
		log.Printf("auth: unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
