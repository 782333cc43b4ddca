package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zealous/backend/internal/middleware"
	"github.com/zealous/backend/internal/models"
	"github.com/zealous/backend/internal/services"
)

type AdminHandler struct {
	moderation *services.ModerationService
	words      *services.WordList
}

func NewAdminHandler(moderation *services.ModerationService, words *services.WordList) *AdminHandler {
	return &AdminHandler{moderation: moderation, words: words}
}

// ClearPunishments resets the target user's punishment record to defaults.
func (h *AdminHandler) ClearPunishments(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "userId")
	if targetID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("User id is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.moderation.AdminClearPunishments(ctx, targetID); err != nil {
		log.Printf("[ClearPunishments] admin=%s target=%s err=%v", adminID, targetID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to clear punishments"))
		return
	}

	log.Printf("[ClearPunishments] admin=%s cleared target=%s", adminID, targetID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}

type addWordRequest struct {
	Word string `json:"word"`
}

// AddWord appends a term to the forbidden-word list and reloads the set.
func (h *AdminHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"word": "Word is required",
		}))
		return
	}

	if err := h.words.Add(req.Word); err != nil {
		log.Printf("[AddWord] err=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add word"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]int{"terms": h.words.Len()}))
}

// ReloadWords re-reads the word list from disk.
func (h *AdminHandler) ReloadWords(w http.ResponseWriter, r *http.Request) {
	if err := h.words.Reload(); err != nil {
		log.Printf("[ReloadWords] err=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reload word list"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int{"terms": h.words.Len()}))
}
