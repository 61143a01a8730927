package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fitchat-backend/internal/models"
	"fitchat-backend/internal/services"
)

type GeminiHandler struct {
	geminiService *services.GeminiService
}

func NewGeminiHandler(geminiService *services.GeminiService) *GeminiHandler {
	return &GeminiHandler{geminiService: geminiService}
}

// Ask relays the composed prompt upstream and returns the normalized text.
// The response body is always {"text": ...}; upstream failure modes have
// already been collapsed into the fallback text by the service.
func (h *GeminiHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{Text: "Internal server error"})
		return
	}

	text, err := h.geminiService.Answer(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAPIKeyMissing):
			writeJSON(w, http.StatusInternalServerError, models.ChatResponse{Text: "API key missing"})
		case errors.Is(err, services.ErrPromptMissing):
			writeJSON(w, http.StatusBadRequest, models.ChatResponse{Text: "Prompt missing"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ChatResponse{Text: "Internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}
