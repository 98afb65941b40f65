package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/httpx"
	"shareit/internal/logging"
	"shareit/internal/models"
)

// Services bundles the domain services the transports dispatch to.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
}

// Pinger reports store readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HTTPServer exposes the REST API the gateway forwards to.
type HTTPServer struct {
	services Services
	store    Pinger
	auth     *HTTPAuth
	server   *http.Server
	log      *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, services Services, store Pinger, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		services: services,
		store:    store,
		auth:     NewHTTPAuth(cfg, logger),
		log:      logger,
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		ErrorLog:          logging.StdLogger(logger, zerolog.ErrorLevel),
	}
	return srv
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(httpx.AccessLog("server", s.log))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Wrap)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.createUser)
			r.Get("/", s.listUsers)
			r.Get("/{userId}", s.getUser)
			r.Patch("/{userId}", s.updateUser)
			r.Delete("/{userId}", s.deleteUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireUserID)

			r.Route("/items", func(r chi.Router) {
				r.Post("/", s.createItem)
				r.Get("/", s.listOwnerItems)
				r.Get("/search", s.searchItems)
				r.Get("/{itemId}", s.getItem)
				r.Patch("/{itemId}", s.updateItem)
				r.Delete("/{itemId}", s.deleteItem)
				r.Post("/{itemId}/comment", s.addComment)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", s.createBooking)
				r.Get("/", s.listUserBookings)
				r.Get("/owner", s.listOwnerBookings)
				r.Get("/{bookingId}", s.getBooking)
				r.Patch("/{bookingId}", s.approveBooking)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", s.createRequest)
				r.Get("/", s.listOwnRequests)
				r.Get("/all", s.listOtherRequests)
				r.Get("/{requestId}", s.getRequest)
			})
		})
	})

	return r
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.PingContext(ctx); err != nil {
		s.log.Error().Err(err).Msg("store is not ready")
		httpx.WriteError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// fail writes a domain error with its mapped status. Anything unmapped is logged and hidden.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		s.log.Error().Err(err).
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		httpx.WriteError(w, code, internalErrorMessage)
		return
	}
	httpx.WriteError(w, code, err.Error())
}

type ctxKey int

const userIDKey ctxKey = iota

func requireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.UserID(r)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

// pathID writes a 400 and returns false when the named URL parameter is not numeric.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := httpx.PathID(chi.URLParam(r, name), name)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func pageParams(w http.ResponseWriter, r *http.Request) (models.Page, bool) {
	pg, err := httpx.Page(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return pg, false
	}
	return pg, true
}

// decode writes a 400 and returns false when the body is not valid JSON.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
