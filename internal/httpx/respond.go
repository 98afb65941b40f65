package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"
)

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

// DecodeJSON reads a single JSON document from the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// UserID reads the acting user from the X-Sharer-User-Id header.
func UserID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.UserIDHeader))
	if raw == "" {
		return 0, fmt.Errorf("missing %s header", models.UserIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s header must be a number", models.UserIDHeader)
	}
	return id, nil
}

// Page reads from/size query parameters. from defaults to 0 and must be >= 0; size defaults to 10 and must be > 0.
func Page(r *http.Request) (models.Page, error) {
	page := models.DefaultPage()
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return page, errors.New("from must be a non-negative integer")
		}
		page.From = from
	}
	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return page, errors.New("size must be a positive integer")
		}
		page.Size = size
	}
	return page, nil
}

// PathID parses a numeric path segment.
func PathID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return id, nil
}

// Approved parses the booking decision flag.
func Approved(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	if raw == "" {
		return false, errors.New("approved parameter is required")
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("approved must be true or false")
	}
	return approved, nil
}
