package users

import (
	"errors"
	"net/http"

	"github.com/calisnet/engine/go/internal/httpjson"
)

// Service exposes the users App over JSON HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", s.handleCreate)
	mux.HandleFunc("GET /users/{id}", s.handleGet)
	mux.HandleFunc("GET /users/username/{username}", s.handleGetByUsername)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.app.CreateUser(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, user)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathUUID(r, "id")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.app.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

func (s *Service) handleGetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err)
	default:
		httpjson.Error(w, http.StatusInternalServerError, err)
	}
}
