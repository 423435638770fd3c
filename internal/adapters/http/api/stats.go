package api

import (
	"net/http"

	"github.com/okian/geodraw/internal/domain/types"
)

// StatsProvider reports a snapshot of the running service.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler serves the service snapshot.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
