package results

import (
	"errors"
	"net/http"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/httpjson"
	"github.com/calisnet/engine/go/internal/timefmt"
)

// Service exposes result entry and standings over JSON HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers the result and standings endpoints.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /competitions/{id}/results", s.handleSubmit)
	mux.HandleFunc("DELETE /competitions/{id}/results/{participant_id}", s.handleDelete)
	mux.HandleFunc("GET /competitions/{id}/standings", s.handleStandings)
	mux.HandleFunc("GET /competitions/{id}/scoreboard", s.handleScoreboard)
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	var req SubmitResultRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.app.SubmitResult(r.Context(), competitionID, actorID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, result)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	participantID, err := httpjson.PathUUID(r, "participant_id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.app.DeleteResult(r.Context(), competitionID, actorID, participantID); err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func (s *Service) handleStandings(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	standings, err := s.app.StandingsFor(r.Context(), competitionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, standings)
}

func (s *Service) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	entries, err := s.app.ScoreboardFor(r.Context(), competitionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, competitions.ErrNotFound), errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err)
	case errors.Is(err, ErrNotOrganizer):
		httpjson.Error(w, http.StatusForbidden, err)
	case errors.Is(err, ErrNoParticipant):
		httpjson.Error(w, http.StatusConflict, err)
	case errors.Is(err, timefmt.ErrFormat):
		httpjson.Error(w, http.StatusBadRequest, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
