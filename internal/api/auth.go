package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"shareit/internal/config"
	"shareit/internal/httpx"
	"shareit/internal/metrics"
)

const (
	apiKeyHeaderDefault   = "x-api-key"
	apiExtraHeaderDefault = "x-api-extra"
	permRead              = "read"
	permWrite             = "write"
	clientKeyUnknown      = "unknown"
)

var (
	errMissingKey       = errors.New("missing api key headers")
	errInvalidKey       = errors.New("invalid api key")
	errInvalidExtra     = errors.New("invalid extra header")
	errPermissionDenied = errors.New("permission denied")
	errRateLimited      = errors.New("rate limit exceeded")
)

// clientRegistry resolves api key pairs to configured clients.
type clientRegistry struct {
	enabled     bool
	headerKey   string
	headerExtra string
	clients     map[string]config.APIClientKey
}

func newClientRegistry(cfg config.APIAuthConfig) *clientRegistry {
	m := make(map[string]config.APIClientKey, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		m[k.Key] = k
	}

	headerKey := strings.ToLower(strings.TrimSpace(cfg.HeaderAPIKey))
	if headerKey == "" {
		headerKey = apiKeyHeaderDefault
	}
	headerExtra := strings.ToLower(strings.TrimSpace(cfg.HeaderExtra))
	if headerExtra == "" {
		headerExtra = apiExtraHeaderDefault
	}

	return &clientRegistry{
		enabled:     cfg.Enabled,
		headerKey:   headerKey,
		headerExtra: headerExtra,
		clients:     m,
	}
}

func (c *clientRegistry) authenticate(apiKey, extra, required string) error {
	if apiKey == "" || extra == "" {
		return errMissingKey
	}
	client, ok := c.clients[apiKey]
	if !ok {
		return errInvalidKey
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return errInvalidExtra
	}

	// An empty permission list grants everything.
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

// HTTPAuth provides API-key auth and per-key rate limiting for the REST surface.
type HTTPAuth struct {
	registry *clientRegistry
	limiter  *keyedLimiter
	logger   *zerolog.Logger
}

func NewHTTPAuth(cfg config.APIConfig, logger *zerolog.Logger) *HTTPAuth {
	return &HTTPAuth{
		registry: newClientRegistry(cfg.Auth),
		limiter:  newKeyedLimiter(cfg.RateLimit),
		logger:   logger,
	}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.registry.enabled {
			apiKey := strings.TrimSpace(r.Header.Get(a.registry.headerKey))
			extra := strings.TrimSpace(r.Header.Get(a.registry.headerExtra))
			if err := a.registry.authenticate(apiKey, extra, requiredPermissionHTTP(r)); err != nil {
				statusCode := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					statusCode = http.StatusForbidden
				}
				a.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected api call")
				httpx.WriteError(w, statusCode, err.Error())
				return
			}
		}

		if !a.limiter.allow(a.clientKey(r)) {
			metrics.IncRateLimited("server_http")
			httpx.WriteError(w, http.StatusTooManyRequests, errRateLimited.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requiredPermissionHTTP(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return permRead
	}
	return permWrite
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.registry.headerKey)); apiKey != "" {
		return apiKey
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return clientKeyUnknown
}

// AuthInterceptor guards the gRPC read surface with the same client registry.
type AuthInterceptor struct {
	registry *clientRegistry
	limiter  *keyedLimiter
}

func NewAuthInterceptor(cfg config.APIConfig) *AuthInterceptor {
	return &AuthInterceptor{
		registry: newClientRegistry(cfg.Auth),
		limiter:  newKeyedLimiter(cfg.RateLimit),
	}
}

func (a *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if a.registry.enabled && isShareItMethod(info.FullMethod) {
			if err := a.checkAuth(ctx); err != nil {
				return nil, err
			}
		}
		if !a.limiter.allow(a.clientKey(ctx)) {
			metrics.IncRateLimited("server_grpc")
			return nil, status.Error(codes.ResourceExhausted, errRateLimited.Error())
		}
		return handler(ctx, req)
	}
}

func (a *AuthInterceptor) checkAuth(ctx context.Context) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}

	err := a.registry.authenticate(first(md.Get(a.registry.headerKey)), first(md.Get(a.registry.headerExtra)), permRead)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Unauthenticated, err.Error())
	}
}

func (a *AuthInterceptor) clientKey(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if apiKey := first(md.Get(a.registry.headerKey)); apiKey != "" {
		return apiKey
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return clientKeyUnknown
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}
