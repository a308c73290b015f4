package handlers

import (
	"net/http"

	"github.com/sudip-bhr/Task-Management-System-backend/middleware"
	"github.com/sudip-bhr/Task-Management-System-backend/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData answers the system-wide dashboard. Admin only.
func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardService.SystemDashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// GetUserDashboardData answers the dashboard scoped to the caller's tasks.
func (h *DashboardHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authorized, no token", http.StatusUnauthorized)
		return
	}

	data, err := h.dashboardService.UserDashboard(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
