// Package web exposes the places API over HTTP.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"satwatch/internal/auth"
	"satwatch/internal/metrics"
	"satwatch/internal/notify"
	"satwatch/internal/service"
)

// Options tune the middleware stack. Zero values disable rate limiting and
// auth enforcement.
type Options struct {
	RateLimitRPS   int
	RateLimitBurst int
	AuthSecret     []byte
}

type Server struct {
	service  *service.LocationService
	notifier *notify.Center
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router
}

func NewServer(svc *service.LocationService, notifier *notify.Center, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		service:  svc,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(requestLogger(logger))
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			burst := opts.RateLimitBurst
			if burst <= 0 {
				burst = opts.RateLimitRPS
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)))
		}
		r.Use(prometheusMetrics)
		r.Use(auth.Middleware(opts.AuthSecret))

		r.Route("/places", func(r chi.Router) {
			r.Get("/", s.handleListPlaces)
			r.Post("/", s.handleCreatePlace)
			r.Post("/upload", s.handleUploadPlace)
			r.Post("/draw", s.handleDrawPlace)
			r.Get("/bbox", s.handleBBox)
			r.Get("/nearby", s.handleNearby)
			r.Get("/{id}", s.handleGetPlace)
			r.Delete("/{id}", s.handleDeletePlace)
		})
		r.Get("/stats", s.handleStats)
		r.Get("/notifications", s.handleNotifications)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
