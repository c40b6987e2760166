package server

import (
	"context"
	"errors"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/app/server/handlers"
	"francoggm/coffeekiosk-mpesa/internal/config"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	handlers *handlers.Handlers
	httpSrv  *http.Server

	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, paymentService handlers.PaymentInitiator, callbackHandler handlers.CallbackHandler, callbackEventsCh chan any) *Server {
	srv := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: handlers.NewHandlers(cfg, paymentService, callbackHandler, callbackEventsCh),

		shutdownTimeout: 10 * time.Second,
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	srv.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv
}

func (s *Server) registerMiddlewares() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(handlers.Recover)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:         300,
	}))
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handlers.Root)
	s.router.Get("/health", s.handlers.Health)
	s.router.Post("/pay", s.handlers.Pay)
	s.router.Post("/callback", s.handlers.Callback)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve blocks until ctx is done and every in-flight request has finished.
// A nil return means no handler is still running.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to drain in-flight requests: %w", err)
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
