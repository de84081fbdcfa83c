package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-builder/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

// Stats обрабатывает GET /events/{eventID}/dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.dashboardService.GetStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
