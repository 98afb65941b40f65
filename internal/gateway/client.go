package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shareit/internal/httpx"
	"shareit/internal/models"
)

const maxResponseBytes = 4 << 20

// ServerClient forwards validated calls to the ShareIt server.
type ServerClient struct {
	baseURL     string
	apiKey      string
	apiExtra    string
	headerKey   string
	headerExtra string
	httpClient  *http.Client
}

// Forwarded is the server's reply, relayed to the caller unchanged.
type Forwarded struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Call describes one forwarded request. A nil UserID sends no acting-user header.
type Call struct {
	Method     string
	RequestURI string
	UserID     *int64
	RequestID  string
	Body       []byte
}

func NewServerClient(baseURL, apiKey, apiExtra string, timeout time.Duration) *ServerClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServerClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		apiExtra:    apiExtra,
		headerKey:   "x-api-key",
		headerExtra: "x-api-extra",
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// UseAuthHeaders overrides the api key header names the server expects.
func (c *ServerClient) UseAuthHeaders(headerKey, headerExtra string) {
	if headerKey != "" {
		c.headerKey = headerKey
	}
	if headerExtra != "" {
		c.headerExtra = headerExtra
	}
}

func (c *ServerClient) Forward(ctx context.Context, call Call) (*Forwarded, error) {
	var body io.Reader
	if len(call.Body) > 0 {
		body = bytes.NewReader(call.Body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.baseURL+call.RequestURI, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if call.UserID != nil {
		req.Header.Set(models.UserIDHeader, fmt.Sprint(*call.UserID))
	}
	if call.RequestID != "" {
		req.Header.Set(httpx.RequestIDHeader, call.RequestID)
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward %s %s: %w", call.Method, call.RequestURI, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read server response: %w", err)
	}
	return &Forwarded{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}

func (c *ServerClient) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(c.headerKey, c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set(c.headerExtra, c.apiExtra)
	}
}
