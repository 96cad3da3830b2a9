package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/denizhukuk/lawsite/internal/config"
	"github.com/denizhukuk/lawsite/internal/content"
	"github.com/denizhukuk/lawsite/internal/web/handlers"
	"github.com/denizhukuk/lawsite/internal/web/middleware"
)

// Options configures a Server.
type Options struct {
	Port        int
	Bind        string
	AllowedNet  *net.IPNet
	CORSOrigins []string
	Timeouts    config.TimeoutConfig
}

// Server represents the web server
type Server struct {
	opts     Options
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server
func NewServer(svc *content.Service, db handlers.Pinger, loader *config.Loader, opts Options) *Server {
	opts.Timeouts = opts.Timeouts.WithDefaults()
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		opts:     opts,
		router:   chi.NewRouter(),
		handlers: handlers.New(svc, db, loader),
	}
	s.setupRoutes()
	return s
}

// Router exposes the configured routes, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router
	h := s.handlers

	r.Use(chimiddleware.RequestID)
	// AllowSubnet must come BEFORE RealIP so we check the actual connection source
	r.Use(middleware.AllowSubnet(s.opts.AllowedNet))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Timeout(s.opts.Timeouts.Request))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method not allowed"}`))
	})

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/practice-areas", func(r chi.Router) {
		r.Get("/", h.ListPracticeAreas)
		r.Post("/", h.CreatePracticeArea)
		r.Get("/{id}", h.GetPracticeArea)
		r.Put("/{id}", h.UpdatePracticeArea)
		r.Delete("/{id}", h.DeletePracticeArea)
	})

	r.Route("/lawyers", func(r chi.Router) {
		r.Get("/", h.ListLawyers)
		r.Post("/", h.CreateLawyer)
		r.Get("/{id}", h.GetLawyer)
		r.Put("/{id}", h.UpdateLawyer)
		r.Delete("/{id}", h.DeleteLawyer)
	})

	r.Route("/case-outcomes", func(r chi.Router) {
		r.Get("/", h.ListCaseOutcomes)
		r.Post("/", h.CreateCaseOutcome)
		r.Get("/{id}", h.GetCaseOutcome)
		r.Put("/{id}", h.UpdateCaseOutcome)
		r.Delete("/{id}", h.DeleteCaseOutcome)
	})

	r.Route("/testimonials", func(r chi.Router) {
		r.Get("/", h.ListTestimonials)
		r.Post("/", h.CreateTestimonial)
		r.Get("/{id}", h.GetTestimonial)
		r.Put("/{id}", h.UpdateTestimonial)
		r.Delete("/{id}", h.DeleteTestimonial)
	})

	r.Route("/contact-messages", func(r chi.Router) {
		r.Get("/", h.ListContactMessages)
		r.Post("/", h.CreateContactMessage)
		r.Get("/{id}", h.GetContactMessage)
		r.Put("/{id}", h.UpdateContactMessage)
		r.Delete("/{id}", h.DeleteContactMessage)
	})
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s.opts.Bind != "" {
		return net.JoinHostPort(s.opts.Bind, strconv.Itoa(s.opts.Port))
	}
	return fmt.Sprintf(":%d", s.opts.Port)
}

// Start serves HTTP until ctx is cancelled, then drains in-flight requests
// for up to the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       s.opts.Timeouts.Read,
		ReadHeaderTimeout: s.opts.Timeouts.Read,
		// the Timeout middleware bounds handlers; leave headroom to write the 503
		WriteTimeout: s.opts.Timeouts.Request + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.Timeouts.Shutdown)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
