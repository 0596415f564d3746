package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP requests into competition subscriptions.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{connectionManager: cm}
}

// HandleStandingsConnection subscribes a client to one competition's events.
func (h *WebSocketHandler) HandleStandingsConnection(w http.ResponseWriter, r *http.Request) {
	competitionIDStr := r.URL.Query().Get("competition_id")
	if competitionIDStr == "" {
		http.Error(w, "competition_id is required", http.StatusBadRequest)
		return
	}

	competitionID, err := uuid.Parse(competitionIDStr)
	if err != nil {
		http.Error(w, "invalid competition_id format", http.StatusBadRequest)
		return
	}

	// In production this would come from the session
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, competitionID); err != nil {
		log.Error().
			Err(err).
			Str("competition_id", competitionID.String()).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats reports active subscription counts.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers the WebSocket routes on an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/standings", h.HandleStandingsConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
