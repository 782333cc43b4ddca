package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/zealous/backend/internal/middleware"
	"github.com/zealous/backend/internal/models"
	"github.com/zealous/backend/internal/services"
)

type MessageHandler struct {
	moderation *services.ModerationService
}

func NewMessageHandler(moderation *services.ModerationService) *MessageHandler {
	return &MessageHandler{moderation: moderation}
}

type evaluateRequest struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

// Evaluate runs the moderation pipeline over one incoming message and returns
// the effects that were executed against the transport.
func (h *MessageHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	displayName := middleware.GetDisplayName(r.Context())

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.MessageID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"message_id": "message_id is required",
		}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	effects, err := h.moderation.EvaluateMessage(ctx, userID, displayName, req.ChatID, req.MessageID, req.Text, time.Now())
	if err != nil {
		log.Printf("[Evaluate] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to evaluate message"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(effects))
}
