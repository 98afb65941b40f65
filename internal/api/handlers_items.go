package api

import (
	"net/http"

	"shareit/internal/httpx"
	"shareit/internal/models"
)

func (s *HTTPServer) createItem(w http.ResponseWriter, r *http.Request) {
	var in models.NewItem
	if !decode(w, r, &in) {
		return
	}
	item, err := s.services.Items.Create(r.Context(), in, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, item)
}

func (s *HTTPServer) listOwnerItems(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, err := s.services.Items.ListByOwner(r.Context(), userID(r), pg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) searchItems(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, err := s.services.Items.SearchByText(r.Context(), r.URL.Query().Get("text"), pg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	item, err := s.services.Items.FindByID(r.Context(), id, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var patch models.ItemPatch
	if !decode(w, r, &patch) {
		return
	}
	item, err := s.services.Items.Update(r.Context(), patch, id, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := s.services.Items.Delete(r.Context(), id, userID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) addComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var in models.NewComment
	if !decode(w, r, &in) {
		return
	}
	comment, err := s.services.Items.AddComment(r.Context(), in, id, userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, comment)
}
