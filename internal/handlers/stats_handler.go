package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/zealous/backend/internal/middleware"
	"github.com/zealous/backend/internal/models"
	"github.com/zealous/backend/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := contextWithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	report, err := h.stats.Report(ctx, userID, time.Now())
	if err != nil {
		log.Printf("[Stats] user=%s err=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to build statistics"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(report))
}
