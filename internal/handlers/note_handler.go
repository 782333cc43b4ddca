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

type NoteHandler struct {
	notes services.NoteStore
}

func NewNoteHandler(notes services.NoteStore) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type createNoteRequest struct {
	Text string `json:"text"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"text": "Note text is required",
		}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	note, err := h.notes.Add(ctx, userID, strings.TrimSpace(req.Text), time.Now())
	if err != nil {
		log.Printf("[CreateNote] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save note"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(note))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	notes, err := h.notes.ListForUser(ctx, userID)
	if err != nil {
		log.Printf("[ListNotes] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list notes"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(notes))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	noteID := chi.URLParam(r, "noteId")

	ctx, cancel := contextWithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	deleted, err := h.notes.Delete(ctx, noteID, userID)
	if err != nil {
		log.Printf("[DeleteNote] user=%s id=%s err=%v", userID, noteID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete note"))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Note not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
