package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Item with id 5 not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Item with id 5 not found", body["error"])
}

func TestUserID(t *testing.T) {
	tests := []struct {
		header  string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{" 12 ", 12, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/items", nil)
		if tt.header != "" {
			r.Header.Set(models.UserIDHeader, tt.header)
		}
		got, err := UserID(r)
		if tt.wantErr {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		query   string
		want    models.Page
		wantErr bool
	}{
		{"", models.Page{From: 0, Size: 10}, false},
		{"from=20&size=5", models.Page{From: 20, Size: 5}, false},
		{"from=-1", models.Page{}, true},
		{"size=0", models.Page{}, true},
		{"size=x", models.Page{}, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/items?"+tt.query, nil)
		got, err := Page(r)
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestApprovedAndPathID(t *testing.T) {
	r := httptest.NewRequest(http.MethodPatch, "/bookings/1?approved=true", nil)
	ok, err := Approved(r)
	require.NoError(t, err)
	assert.True(t, ok)

	r = httptest.NewRequest(http.MethodPatch, "/bookings/1?approved=maybe", nil)
	_, err = Approved(r)
	assert.Error(t, err)

	r = httptest.NewRequest(http.MethodPatch, "/bookings/1", nil)
	_, err = Approved(r)
	assert.Error(t, err)

	id, err := PathID("42", "itemId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	_, err = PathID("x", "itemId")
	assert.EqualError(t, err, "itemId must be a number")
}

func TestDecodeJSON(t *testing.T) {
	var v models.NewUser
	r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ann","email":"a@b.c"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "Ann", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(r, &v))
}
