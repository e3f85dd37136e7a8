package api

import (
	"net/http"
)

// statsResponse is the JSON response for GET /v1/stats.
type statsResponse struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByEngine      map[string]int `json:"by_engine"`
	AvgDurationUS float64        `json:"avg_duration_us"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetCopyStats(r.Context())
	if err != nil {
		s.logger.Error("get copy stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		Total:         stats.Total,
		ByStatus:      stats.CountByStatus,
		ByEngine:      stats.CountByEngine,
		AvgDurationUS: stats.AvgDurationUS,
	})
}
