package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/httpx"
	"shareit/internal/metrics"
	"shareit/internal/models"
)

const maxBodyBytes = 1 << 20

// Forwarder sends a validated call upstream.
type Forwarder interface {
	Forward(ctx context.Context, call Call) (*Forwarded, error)
}

// Gateway validates client input at the boundary and relays valid calls to the server.
type Gateway struct {
	upstream Forwarder
	limiter  domain.RateLimitRepository
	limit    config.UserRateLimitConfig
	validate *validator.Validate
	log      *zerolog.Logger
}

func New(upstream Forwarder, limiter domain.RateLimitRepository, limit config.UserRateLimitConfig, logger *zerolog.Logger) *Gateway {
	return &Gateway{
		upstream: upstream,
		limiter:  limiter,
		limit:    limit,
		validate: newValidator(),
		log:      logger,
	}
}

func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(httpx.AccessLog("gateway", g.log))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", withBody[models.NewUser](g))
		r.Get("/", g.pass())
		r.Get("/{userId}", g.pass(ids("userId")...))
		r.Patch("/{userId}", withBody[models.UserPatch](g, ids("userId")...))
		r.Delete("/{userId}", g.pass(ids("userId")...))
	})

	r.Group(func(r chi.Router) {
		r.Use(g.requireUser)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", withBody[models.NewItem](g))
			r.Get("/", g.pass(checkPage))
			r.Get("/search", g.pass(checkSearchText, checkPage))
			r.Get("/{itemId}", g.pass(ids("itemId")...))
			r.Patch("/{itemId}", withBody[models.ItemPatch](g, ids("itemId")...))
			r.Delete("/{itemId}", g.pass(ids("itemId")...))
			r.Post("/{itemId}/comment", withBody[models.NewComment](g, ids("itemId")...))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", withBody[models.NewBooking](g))
			r.Get("/", g.pass(checkState, checkPage))
			r.Get("/owner", g.pass(checkState, checkPage))
			r.Get("/{bookingId}", g.pass(ids("bookingId")...))
			r.Patch("/{bookingId}", g.pass(append(ids("bookingId"), checkApproved)...))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", withBody[models.NewRequest](g))
			r.Get("/", g.pass())
			r.Get("/all", g.pass(checkPage))
			r.Get("/{requestId}", g.pass(ids("requestId")...))
		})
	})

	return r
}

type requestCheck func(r *http.Request) error

func checkPage(r *http.Request) error {
	_, err := httpx.Page(r)
	return err
}

func checkApproved(r *http.Request) error {
	_, err := httpx.Approved(r)
	return err
}

func ids(names ...string) []requestCheck {
	checks := make([]requestCheck, 0, len(names))
	for _, name := range names {
		checks = append(checks, func(r *http.Request) error {
			_, err := httpx.PathID(chi.URLParam(r, name), name)
			return err
		})
	}
	return checks
}

// pass forwards a body-less call once every check succeeds.
func (g *Gateway) pass(checks ...requestCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !runChecks(w, r, checks) {
			return
		}
		g.forward(w, r, nil)
	}
}

// withBody decodes the JSON body as T, validates its struct tags and forwards the original bytes.
func withBody[T any](g *Gateway, checks ...requestCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !runChecks(w, r, checks) {
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "request body is too large or unreadable")
			return
		}
		var in T
		if err := json.Unmarshal(raw, &in); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := checkBody(g.validate, in); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.forward(w, r, raw)
	}
}

func runChecks(w http.ResponseWriter, r *http.Request, checks []requestCheck) bool {
	for _, check := range checks {
		if err := check(r); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	return true
}

type ctxKey int

const userIDKey ctxKey = iota

// requireUser validates the acting-user header and applies the per-user limit.
func (g *Gateway) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.UserID(r)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if g.limiter != nil && g.limit.Limit > 0 {
			allowed, err := g.limiter.CheckRateLimit(r.Context(), userID, g.limit.Limit, g.limit.Window)
			if err != nil {
				g.log.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed, allowing call")
			} else if !allowed {
				metrics.IncRateLimited("gateway_user")
				httpx.WriteError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, body []byte) {
	var userID *int64
	if id, ok := r.Context().Value(userIDKey).(int64); ok {
		userID = &id
	}
	requestID := chiMiddleware.GetReqID(r.Context())

	resp, err := g.upstream.Forward(r.Context(), Call{
		Method:     r.Method,
		RequestURI: r.URL.RequestURI(),
		UserID:     userID,
		RequestID:  requestID,
		Body:       body,
	})
	if err != nil {
		g.log.Error().Err(err).Str("request_id", requestID).Msg("server call failed")
		httpx.WriteError(w, http.StatusBadGateway, "server unavailable")
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
