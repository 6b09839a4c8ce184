// Package api exposes the marketplace REST surface: catalog CRUD,
// bookings, session login and the per-session cart.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"farmrent/internal/config"
	"farmrent/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg      config.ServerConfig
	catalog  *service.CatalogService
	bookings *service.BookingService
	sessions *service.SessionService
	validate *validator.Validate
	limiter  *clientLimiter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.ServerConfig,
	rateCfg config.RateLimitConfig,
	catalog *service.CatalogService,
	bookings *service.BookingService,
	sessions *service.SessionService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		catalog:  catalog,
		bookings: bookings,
		sessions: sessions,
		validate: validator.New(),
		limiter:  newClientLimiter(rateCfg),
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.countRequests)
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)

	r.Get("/equipments", s.handleListEquipments)
	r.Post("/equipments", s.handleCreateEquipment)

	r.Get("/workers", s.handleListWorkers)
	r.Post("/workers", s.handleCreateWorker)

	r.Get("/bookings", s.handleListBookings)
	r.Post("/bookings", s.handleCreateBooking)
	r.Patch("/bookings/{id}/cancel", s.handleCancelBooking)

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.handleGetCart)
		r.Post("/items", s.handleAddCartItem)
		r.Patch("/items/{id}", s.handleUpdateCartItem)
		r.Delete("/items/{id}", s.handleRemoveCartItem)
		r.Put("/filters", s.handleSaveFilters)
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSecs) * time.Second,
	}

	return s
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
