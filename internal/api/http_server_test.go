package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/service"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newTestServices(t *testing.T) (Services, *database.DB) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "api.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	return Services{
		Users:    service.NewUserService(db, testLogger()),
		Items:    service.NewItemService(db, bus, testLogger()),
		Bookings: service.NewBookingService(db, bus, testLogger()),
		Requests: service.NewRequestService(db, testLogger()),
	}, db
}

func newTestHTTPServer(t *testing.T, cfg config.APIConfig) *httptest.Server {
	t.Helper()
	services, db := newTestServices(t)
	srv := NewHTTPServer(cfg, services, db, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t    *testing.T
	base string
}

func (c client) do(method, path string, userID int64, body any) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(models.UserIDHeader, fmt.Sprint(userID))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c client) createUser(name, email string) models.User {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email})
	require.Equal(c.t, http.StatusCreated, code, string(body))
	var u models.User
	require.NoError(c.t, json.Unmarshal(body, &u))
	return u
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e map[string]string
	require.NoError(t, json.Unmarshal(body, &e))
	return e["error"]
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestHTTPServer(t, config.APIConfig{})
	c := client{t: t, base: ts.URL}

	code, _ := c.do(http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, code)
	code, body := c.do(http.MethodGet, "/readyz", 0, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "ready")
}

func TestUsersEndpoints(t *testing.T) {
	ts := newTestHTTPServer(t, config.APIConfig{})
	c := client{t: t, base: ts.URL}

	ann := c.createUser("Ann", "ann@example.com")
	assert.Positive(t, ann.ID)

	code, body := c.do(http.MethodPost, "/users", 0, map[string]string{"name": "Other", "email": "ann@example.com"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, errorMessage(t, body), "ann@example.com")

	code, body = c.do(http.MethodPatch, fmt.Sprintf("/users/%d", ann.ID), 0, map[string]string{"name": "Annie"})
	require.Equal(t, http.StatusOK, code)
	var updated models.User
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)

	code, body = c.do(http.MethodGet, "/users", 0, nil)
	require.Equal(t, http.StatusOK, code)
	var all []models.User
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/users/%d", ann.ID), 0, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = c.do(http.MethodGet, fmt.Sprintf("/users/%d", ann.ID), 0, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, fmt.Sprintf("User with id %d not found", ann.ID), errorMessage(t, body))

	code, _ = c.do(http.MethodGet, "/users/abc", 0, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/users", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItemsAndBookingsEndpoints(t *testing.T) {
	ts := newTestHTTPServer(t, config.APIConfig{})
	c := client{t: t, base: ts.URL}

	owner := c.createUser("Owner", "owner@example.com")
	booker := c.createUser("Booker", "booker@example.com")

	code, body := c.do(http.MethodPost, "/items", 0, map[string]any{"name": "Drill", "description": "Cordless", "available": true})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, errorMessage(t, body), models.UserIDHeader)

	code, body = c.do(http.MethodPost, "/items", owner.ID, map[string]any{"name": "Drill", "description": "Cordless", "available": true})
	require.Equal(t, http.StatusCreated, code, string(body))
	var item models.ItemView
	require.NoError(t, json.Unmarshal(body, &item))

	code, body = c.do(http.MethodGet, "/items/search?text=dRiLl", booker.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var found []models.ItemView
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, item.ID, found[0].ID)

	code, body = c.do(http.MethodGet, "/items/search?text=", booker.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(body))

	start := time.Now().Add(time.Hour).UTC().Format("2006-01-02T15:04:05")
	end := time.Now().Add(2 * time.Hour).UTC().Format("2006-01-02T15:04:05")
	code, body = c.do(http.MethodPost, "/bookings", booker.ID, map[string]any{"itemId": item.ID, "start": start, "end": end})
	require.Equal(t, http.StatusCreated, code, string(body))
	var booking models.BookingView
	require.NoError(t, json.Unmarshal(body, &booking))
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, "Drill", booking.Item.Name)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", booking.ID), booker.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=yes", booking.ID), owner.ID, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", booking.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &booking))
	assert.Equal(t, models.StatusApproved, booking.Status)

	code, body = c.do(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var ownerView models.ItemView
	require.NoError(t, json.Unmarshal(body, &ownerView))
	require.NotNil(t, ownerView.NextBooking)
	assert.Equal(t, booking.ID, ownerView.NextBooking.ID)

	code, body = c.do(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(body), "nextBooking")

	code, body = c.do(http.MethodGet, "/bookings/owner?state=FUTURE", owner.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var listed []models.BookingView
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 1)

	code, body = c.do(http.MethodGet, "/bookings?state=BOGUS", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Unknown state: BOGUS", errorMessage(t, body))

	code, _ = c.do(http.MethodGet, "/bookings?from=-1", booker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID, map[string]string{"text": "Great"})
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/items/%d", item.ID), booker.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestRequestsEndpoints(t *testing.T) {
	ts := newTestHTTPServer(t, config.APIConfig{})
	c := client{t: t, base: ts.URL}

	asker := c.createUser("Asker", "asker@example.com")
	helper := c.createUser("Helper", "helper@example.com")

	code, body := c.do(http.MethodPost, "/requests", asker.ID, map[string]string{"description": "Need a ladder"})
	require.Equal(t, http.StatusCreated, code, string(body))
	var request models.RequestView
	require.NoError(t, json.Unmarshal(body, &request))

	code, body = c.do(http.MethodPost, "/items", helper.ID, map[string]any{
		"name": "Ladder", "description": "3m", "available": true, "requestId": request.ID,
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = c.do(http.MethodGet, "/requests", asker.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var own []models.RequestView
	require.NoError(t, json.Unmarshal(body, &own))
	require.Len(t, own, 1)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, "Ladder", own[0].Items[0].Name)

	code, body = c.do(http.MethodGet, "/requests/all", asker.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(body))

	code, body = c.do(http.MethodGet, "/requests/all?from=0&size=5", helper.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var others []models.RequestView
	require.NoError(t, json.Unmarshal(body, &others))
	assert.Len(t, others, 1)

	code, _ = c.do(http.MethodGet, "/requests/999", helper.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

type failingUsers struct {
	domain.UserService
}

func (failingUsers) GetAll(context.Context) ([]*models.User, error) {
	return nil, errors.New("disk on fire")
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	_, db := newTestServices(t)
	srv := NewHTTPServer(config.APIConfig{}, Services{Users: failingUsers{}}, db, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	code, body := client{t: t, base: ts.URL}.do(http.MethodGet, "/users", 0, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, internalErrorMessage, errorMessage(t, body))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NotFound("x"), http.StatusNotFound},
		{domain.Forbidden("x"), http.StatusForbidden},
		{domain.Validation("x"), http.StatusBadRequest},
		{domain.UnsupportedState("X"), http.StatusBadRequest},
		{domain.Conflict("x"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", domain.NotFound("x")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, httpStatus(tt.err), tt.err.Error())
	}
}
