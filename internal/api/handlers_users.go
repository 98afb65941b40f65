package api

import (
	"net/http"

	"shareit/internal/httpx"
	"shareit/internal/models"
)

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if !decode(w, r, &in) {
		return
	}
	user, err := s.services.Users.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.Users.GetAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	user, err := s.services.Users.FindByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var patch models.UserPatch
	if !decode(w, r, &patch) {
		return
	}
	user, err := s.services.Users.Update(r.Context(), patch, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := s.services.Users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
