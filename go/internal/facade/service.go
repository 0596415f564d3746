package facade

import (
	"errors"
	"net/http"

	"github.com/calisnet/engine/go/clients"
	"github.com/calisnet/engine/go/internal/achievements"
	"github.com/calisnet/engine/go/internal/httpjson"
	"github.com/calisnet/engine/go/internal/models"
)

// Service exposes the legacy-API views over JSON HTTP.
type Service struct {
	facade *Facade
}

func NewService(f *Facade) *Service {
	return &Service{facade: f}
}

// RegisterRoutes registers the read-only view endpoints.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /views/competitions/{id}/standings", s.handleStandings)
	mux.HandleFunc("GET /views/users/{username}/history", s.handleHistory)
	mux.HandleFunc("GET /views/users/{username}/achievements", s.handleAchievements)
}

func (s *Service) handleStandings(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	board, err := s.facade.CompetitionStandings(r.Context(), competitionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, board)
}

type userView struct {
	User    *models.User                `json:"user"`
	Entries []achievements.HistoryEntry `json:"entries"`
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, history, err := s.facade.UserHistory(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, userView{User: user, Entries: history})
}

func (s *Service) handleAchievements(w http.ResponseWriter, r *http.Request) {
	user, podium, err := s.facade.UserAchievements(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, userView{User: user, Entries: podium})
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	var partial *PartialFetchError
	switch {
	case errors.Is(err, clients.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err)
	case errors.As(err, &partial):
		httpjson.Error(w, http.StatusBadGateway, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
