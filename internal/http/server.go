package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Clark-Hu/pokemon-reviews/internal/config"
	"github.com/Clark-Hu/pokemon-reviews/internal/metrics"
	"github.com/Clark-Hu/pokemon-reviews/internal/repository"
	"github.com/Clark-Hu/pokemon-reviews/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	store    *store.Store
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	validate *validator.Validate
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes. A nil
// gatherer serves the default Prometheus registry on /metrics.
func New(cfg config.Config, st *store.Store, logger zerolog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	logger = logger.With().Str("component", "http").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(withRequestID)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		metrics:  m,
		gatherer: gatherer,
		validate: newValidator(),
		router:   r,
	}
	s.registerRoutes()
	s.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.instrument)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.requireWriteAuth)

		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/", s.handleListPokemon)
			r.Post("/", s.handleCreatePokemon)
			r.Get("/name/{name}", s.handleGetPokemonByName)
			r.Route("/{pokemonID}", func(r chi.Router) {
				r.Get("/", s.handleGetPokemon)
				r.Put("/", s.handleUpdatePokemon)
				r.Delete("/", s.handleDeletePokemon)
				r.Get("/rating", s.handleGetPokemonRating)
				r.Get("/ratings", s.handleListPokemonRatings)
				r.Get("/owners", s.handleListOwnersOfPokemon)
				r.Get("/reviews", s.handleListReviewsOfPokemon)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Route("/{categoryID}", func(r chi.Router) {
				r.Get("/", s.handleGetCategory)
				r.Put("/", s.handleUpdateCategory)
				r.Delete("/", s.handleDeleteCategory)
				r.Get("/pokemon", s.handleListPokemonByCategory)
			})
		})

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", s.handleListCountries)
			r.Post("/", s.handleCreateCountry)
			r.Route("/{countryID}", func(r chi.Router) {
				r.Get("/", s.handleGetCountry)
				r.Put("/", s.handleUpdateCountry)
				r.Delete("/", s.handleDeleteCountry)
				r.Get("/owners", s.handleListOwnersFromCountry)
			})
		})

		r.Route("/owners", func(r chi.Router) {
			r.Get("/", s.handleListOwners)
			r.Post("/", s.handleCreateOwner)
			r.Route("/{ownerID}", func(r chi.Router) {
				r.Get("/", s.handleGetOwner)
				r.Put("/", s.handleUpdateOwner)
				r.Delete("/", s.handleDeleteOwner)
				r.Get("/pokemon", s.handleListPokemonByOwner)
				r.Get("/country", s.handleGetCountryOfOwner)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.handleListReviews)
			r.Post("/", s.handleCreateReview)
			r.Route("/{reviewID}", func(r chi.Router) {
				r.Get("/", s.handleGetReview)
				r.Put("/", s.handleUpdateReview)
				r.Delete("/", s.handleDeleteReview)
			})
		})

		r.Route("/reviewers", func(r chi.Router) {
			r.Get("/", s.handleListReviewers)
			r.Post("/", s.handleCreateReviewer)
			r.Route("/{reviewerID}", func(r chi.Router) {
				r.Get("/", s.handleGetReviewer)
				r.Put("/", s.handleUpdateReviewer)
				r.Delete("/", s.handleDeleteReviewer)
				r.Get("/reviews", s.handleListReviewsByReviewer)
			})
		})
	})
}

// repository returns repositories over a fresh unit of work. Handlers call it
// once per request so concurrent requests never share pending writes.
func (s *Server) repository() *repository.Repository {
	return repository.New(s.store)
}

// Start serves HTTP until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("http server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// withRequestID copies chi's request id onto the request-scoped logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// instrument counts every request by its matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, r.Method, status)
	})
}

// requireWriteAuth guards mutating methods with the static bearer token when
// one is configured.
func (s *Server) requireWriteAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthToken != "" && isWrite(r.Method) && !s.verifyBearer(r.Header.Get("Authorization")) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
