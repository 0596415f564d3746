package exercises

import (
	"errors"
	"net/http"

	"github.com/calisnet/engine/go/internal/competitions"
	"github.com/calisnet/engine/go/internal/httpjson"
)

// Service exposes workout definitions over JSON HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers the exercise endpoints on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /competitions/{id}/exercises", s.handleCreate)
	mux.HandleFunc("GET /competitions/{id}/exercises", s.handleList)
	mux.HandleFunc("PUT /competitions/{id}/exercises/{exercise_id}", s.handleUpdate)
	mux.HandleFunc("DELETE /competitions/{id}/exercises/{exercise_id}", s.handleDelete)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req CreateExerciseRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	exercise, err := s.app.AddExercise(r.Context(), competitionID, actorID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, exercise)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	exercises, err := s.app.ListByCompetition(r.Context(), competitionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, exercises)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	exerciseID, err := httpjson.PathUUID(r, "exercise_id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	var req UpdateExerciseRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	exercise, err := s.app.UpdateExercise(r.Context(), competitionID, exerciseID, actorID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, exercise)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	competitionID, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	exerciseID, err := httpjson.PathUUID(r, "exercise_id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.app.DeleteExercise(r.Context(), competitionID, exerciseID, actorID); err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, competitions.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err)
	case errors.Is(err, ErrNotOrganizer):
		httpjson.Error(w, http.StatusForbidden, err)
	case errors.Is(err, ErrCompetitionClosed):
		httpjson.Error(w, http.StatusConflict, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
