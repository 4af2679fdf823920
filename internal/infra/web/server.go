package web

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"nft-drop-redemption/internal/config"
	"nft-drop-redemption/internal/infra/logging"
	"nft-drop-redemption/internal/infra/redis"
	"nft-drop-redemption/internal/usecase"
)

type Server struct {
	cfg     *config.Config
	codeUC  usecase.CodeAdminUseCase
	claimUC usecase.ClaimUseCase
	limiter *redis.RateLimiter // nil disables rate limiting
	log     *zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	codeUC usecase.CodeAdminUseCase,
	claimUC usecase.ClaimUseCase,
	limiter *redis.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		cfg:     cfg,
		codeUC:  codeUC,
		claimUC: claimUC,
		limiter: limiter,
		log:     logger,
	}
}

// Routes builds the full router: admin API behind bearer auth, public QR and
// claim endpoints, diagnostics and metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/codes", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreateCodes)
		r.Get("/", s.handleListCodes)
		r.Get("/{id}", s.handleGetCode)
	})

	r.Get("/codes/{id}/qr", s.handleCodeQR)
	r.With(s.rateLimitMiddleware).Post("/claim", s.handleClaim)

	return r
}

// traceMiddleware stamps each request with a ULID trace id and logs the
// request line with status and duration.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := ulid.Make().String()
		ctx := logging.WithTraceID(r.Context(), traceID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Server.AdminAPIKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.cfg.Server.AdminAPIKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware throttles the public claim endpoint per client IP
// using a fixed one-minute window. A nil limiter disables throttling; a
// limiter error fails open so a Redis outage cannot block claims.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientIP(r)
		ok, err := s.limiter.Allow(r.Context(), redis.ClaimKey(ip), s.cfg.Limits.ClaimPerMinute, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many claim attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
