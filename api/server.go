package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/config"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/identity"
)

const defaultMaxBodyBytes = 1 << 20

type Server struct {
	*http.Server
	startupTime time.Time
	logger      zerolog.Logger
}

func NewServer(cfg config.Config, logger zerolog.Logger, repos Repositories, verifier identity.Verifier, service Service, reporter ErrorReporter) (Server, error) {
	if verifier == nil {
		return Server{}, errors.New("identity verifier is required")
	}
	if !service.valid() {
		return Server{}, fmt.Errorf("unknown service %q", service)
	}

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(repos, verifier, logger,
		withConfig(cfg),
		withService(service),
		withStartupTime(startupTime),
		withReporter(reporter),
	)

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime, logger}, nil
}

type router struct {
	config      config.Config
	service     Service
	startupTime time.Time
	reporter    ErrorReporter
	logger      zerolog.Logger
	verifier    identity.Verifier
	responder   Responder
	visitors    *visitors
	metrics     *metrics
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withService(service Service) func(*router) {
	return func(r *router) {
		r.service = service
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withReporter(reporter ErrorReporter) func(*router) {
	return func(r *router) {
		r.reporter = reporter
	}
}

// newRouter builds the request pipeline. Middlewares run in this order:
// metrics, panic recovery, request id, JSON body, CORS, identity, request
// logging, then the capability check of the matched route.
func newRouter(repos Repositories, verifier identity.Verifier, logger zerolog.Logger, opts ...func(*router)) *chi.Mux {
	rt := router{
		logger:      logger,
		verifier:    verifier,
		startupTime: time.Now(),
	}
	for _, opt := range opts {
		opt(&rt)
	}
	if rt.config.MaxBodyBytes <= 0 {
		rt.config.MaxBodyBytes = defaultMaxBodyBytes
	}
	acceptedOrigins := rt.config.AcceptedOrigins
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}

	rt.responder = NewResponder(logger, rt.config.IsProduction(), rt.reporter)
	rt.metrics = newMetrics(rt.service)
	if rt.config.RateLimitPerMinute > 0 {
		rt.visitors = newVisitors(rt.config.RateLimitPerMinute)
	}

	handlers := initializeHandlers(repos, rt.responder, logger, rt.service, rt.startupTime)

	chiRouter := chi.NewRouter()
	chiRouter.Use(rt.metrics.middleware)
	chiRouter.Use(rt.recoverPanics)
	chiRouter.Use(requestID)
	chiRouter.Use(rt.parseJSONBody)
	chiRouter.Use(CORSCheckMiddleware(rt.responder, acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))
	chiRouter.Use(rt.attachIdentity)
	chiRouter.Use(rt.logRequests)

	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.WriteError(w, r, errs.NewRouteNotFoundError())
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.WriteError(w, r, errs.NewMethodNotAllowedError(r.Method))
	})

	chiRouter.Get("/healthz", rt.handle(handlers.healthHandler.health()))
	chiRouter.Method(http.MethodGet, "/metrics", rt.metrics.handler())
	rt.mount(chiRouter, handlers.routesFor(rt.service))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	s.logger.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	s.logger.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		s.logger.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		s.logger.Info().Msg("HttpServer gracefully shut down")
	}
}
