package api

import (
	"net/http"

	"shareit/internal/httpx"
	"shareit/internal/models"
)

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var in models.NewBooking
	if !decode(w, r, &in) {
		return
	}
	booking, err := s.services.Bookings.Create(r.Context(), in, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) approveBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookingId")
	if !ok {
		return
	}
	approved, err := httpx.Approved(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	booking, err := s.services.Bookings.SetApproval(r.Context(), id, userID(r), approved)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bookingId")
	if !ok {
		return
	}
	booking, err := s.services.Bookings.FindByID(r.Context(), id, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) listUserBookings(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageParams(w, r)
	if !ok {
		return
	}
	bookings, err := s.services.Bookings.ListForUser(r.Context(), r.URL.Query().Get("state"), userID(r), pg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) listOwnerBookings(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageParams(w, r)
	if !ok {
		return
	}
	bookings, err := s.services.Bookings.ListForOwner(r.Context(), r.URL.Query().Get("state"), userID(r), pg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookings)
}
