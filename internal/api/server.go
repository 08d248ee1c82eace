package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server exposes the business-logic HTTP API backed by the services and the
// relational store. The gateway forwards validated requests here.
type Server struct {
	cfg      config.ServerConfig
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.ServerConfig,
	users domain.UserService,
	items domain.ItemService,
	bookings domain.BookingService,
	requests domain.RequestService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware("server", logger))
	router.Use(recoverMiddleware(logger))

	router.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/", s.handleListUsers)
		r.Get("/{userId}", s.handleGetUser)
		r.Patch("/{userId}", s.handleUpdateUser)
		r.Delete("/{userId}", s.handleDeleteUser)
	})

	router.Route("/items", func(r chi.Router) {
		r.Post("/", s.handleCreateItem)
		r.Get("/", s.handleListItemsByOwner)
		r.Get("/search", s.handleSearchItems)
		r.Get("/{itemId}", s.handleGetItem)
		r.Patch("/{itemId}", s.handleUpdateItem)
		r.Post("/{itemId}/comment", s.handleAddComment)
	})

	router.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.handleCreateBooking)
		r.Get("/", s.handleListBookingsForBooker)
		r.Get("/owner", s.handleListBookingsForOwner)
		r.Get("/{bookingId}", s.handleGetBooking)
		r.Patch("/{bookingId}", s.handleDecideBooking)
	})

	router.Route("/requests", func(r chi.Router) {
		r.Post("/", s.handleAddRequest)
		r.Get("/", s.handleOwnRequests)
		r.Get("/all", s.handleAllRequests)
		r.Get("/{requestId}", s.handleGetRequest)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

// Handler returns the routed handler, used directly in tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
