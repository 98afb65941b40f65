package api

import (
	"net/http"

	"shareit/internal/httpx"
	"shareit/internal/models"
)

func (s *HTTPServer) createRequest(w http.ResponseWriter, r *http.Request) {
	var in models.NewRequest
	if !decode(w, r, &in) {
		return
	}
	request, err := s.services.Requests.Create(r.Context(), in, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, request)
}

func (s *HTTPServer) listOwnRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.services.Requests.GetUserRequestsWithAnswers(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) listOtherRequests(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageParams(w, r)
	if !ok {
		return
	}
	requests, err := s.services.Requests.GetRequestsOfOthers(r.Context(), userID(r), pg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) getRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "requestId")
	if !ok {
		return
	}
	request, err := s.services.Requests.GetByID(r.Context(), userID(r), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, request)
}
