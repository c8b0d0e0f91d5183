package handlers

import (
	"net/http"

	statssvc "github.com/ivankudzin/truecompanions/backend/internal/services/stats"
	httperrors "github.com/ivankudzin/truecompanions/backend/internal/transport/http/errors"
)

type AdminHandler struct {
	stats *statssvc.Service
}

func NewAdminHandler(stats *statssvc.Service) *AdminHandler {
	return &AdminHandler{stats: stats}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.stats.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, stats)
}
