package competitions

import (
	"errors"
	"net/http"
	"time"

	"github.com/calisnet/engine/go/internal/httpjson"
	"github.com/calisnet/engine/go/internal/models"
	"github.com/google/uuid"
)

// Service exposes the competitions App over JSON HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers the competition endpoints on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /competitions", s.handleCreate)
	mux.HandleFunc("GET /competitions", s.handleList)
	mux.HandleFunc("GET /competitions/{id}", s.handleGet)
	mux.HandleFunc("PUT /competitions/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /competitions/{id}", s.handleDelete)
	mux.HandleFunc("POST /competitions/{id}/advance", s.handleAdvance)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	var req CreateCompetitionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	req.OrganizerID = actorID

	competition, err := s.app.CreateCompetition(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, competition)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if raw := r.URL.Query().Get("organizer_id"); raw != "" {
		organizerID, err := uuid.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, err)
			return
		}
		competitions, err := s.app.ListByOrganizer(ctx, organizerID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, competitions)
		return
	}

	competitions, err := s.app.ListUpcoming(ctx, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, competitions)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	competition, err := s.app.GetCompetition(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, competition)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	var req UpdateCompetitionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	competition, err := s.app.UpdateCompetition(r.Context(), id, actorID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, competition)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.app.DeleteCompetition(r.Context(), id, actorID); err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func (s *Service) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}
	actorID, err := httpjson.ActorID(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Status models.CompetitionStatus `json:"status"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	competition, err := s.app.AdvanceStatus(r.Context(), id, actorID, req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, competition)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err)
	case errors.Is(err, ErrNotOrganizer):
		httpjson.Error(w, http.StatusForbidden, err)
	case errors.Is(err, ErrCompetitionClosed), errors.Is(err, ErrInvalidTransition):
		httpjson.Error(w, http.StatusConflict, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
