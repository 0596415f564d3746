package participants

import (
	"errors"
	"net/http"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/httpjson"
)

// Service exposes the participation ledger over JSON HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers join, leave, cancel, and listing endpoints.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /competitions/{id}/participants", s.handleJoin)
	mux.HandleFunc("DELETE /competitions/{id}/participants", s.handleLeave)
	mux.HandleFunc("GET /competitions/{id}/participants", s.handleList)
	mux.HandleFunc("POST /competitions/{id}/cancel", s.handleCancel)
}

func (s *Service) handleJoin(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	userID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	participant, err := s.app.Join(r.Context(), competitionID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, participant)
}

func (s *Service) handleLeave(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	userID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.app.Leave(r.Context(), competitionID, userID); err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	participants, err := s.app.ListByCompetition(r.Context(), competitionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, participants)
}

func (s *Service) handleCancel(w http.ResponseWriter, r *http.Request) {
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

	if err := s.app.Cancel(r.Context(), competitionID, actorID); err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, competitions.ErrNotFound), errors.Is(err, ErrNotParticipant):
		httpjson.Error(w, http.StatusNotFound, err)
	case errors.Is(err, ErrNotOrganizer):
		httpjson.Error(w, http.StatusForbidden, err)
	case errors.Is(err, ErrAlreadyJoined), errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrNotOpen), errors.Is(err, ErrFinished):
		httpjson.Error(w, http.StatusConflict, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
