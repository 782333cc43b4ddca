package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zealous/backend/internal/middleware"
	"github.com/zealous/backend/internal/models"
	"github.com/zealous/backend/internal/services"
)

type ReminderHandler struct {
	reminders services.ReminderStore
}

func NewReminderHandler(reminders services.ReminderStore) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

type createReminderRequest struct {
	Text string `json:"text"`
}

type createReminderResponse struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	RemindAt time.Time `json:"remind_at"`
}

// Create parses the due time out of the request tail ("buy milk 2026-12-31 18:00"
// or "buy milk 18:00") and stores the reminder. A malformed time is rejected
// without any state change.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	now := time.Now()
	text, remindAt, err := services.ParseRemindAt(req.Text, now)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRemindAt) {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
				"text": "Reminder time not recognized. Try: 'meeting 2026-12-31 18:00' or 'meeting 18:00'",
			}))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create reminder"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := h.reminders.Add(ctx, userID, text, remindAt, now)
	if err != nil {
		log.Printf("[CreateReminder] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create reminder"))
		return
	}

	log.Printf("[CreateReminder] user=%s id=%d remind_at=%s", userID, id, remindAt.Format(time.RFC3339))
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(createReminderResponse{
		ID:       id,
		Text:     text,
		RemindAt: remindAt,
	}))
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reminders, err := h.reminders.ListForUser(ctx, userID)
	if err != nil {
		log.Printf("[ListReminders] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list reminders"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(reminders))
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "reminderId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid reminder id"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// The store filters on owner, so someone else's reminder id is just not found.
	if err := h.reminders.Remove(ctx, id, userID); err != nil {
		if errors.Is(err, services.ErrReminderNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Reminder not found"))
			return
		}
		log.Printf("[DeleteReminder] user=%s id=%d err=%v", userID, id, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete reminder"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
