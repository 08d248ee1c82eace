package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// HeaderUserID carries the caller's identity on every scoped endpoint.
const HeaderUserID = "X-Sharer-User-Id"

// Gateway is the validating front door. It checks input shape and caller
// identity, rate-limits callers, and forwards everything else to the server
// untouched.
type Gateway struct {
	cfg     config.GatewayConfig
	client  *Client
	limiter domain.RateLimitRepository
	logger  *zerolog.Logger
	server  *http.Server
}

func NewGateway(cfg config.GatewayConfig, client *Client, limiter domain.RateLimitRepository, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}

	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(g.loggingMiddleware)
	router.Use(g.rateLimitMiddleware)

	router.Route("/users", func(r chi.Router) {
		r.Post("/", g.handleCreateUser)
		r.Get("/", g.forwardHandler)
		r.Get("/{userId}", g.forwardHandler)
		r.Patch("/{userId}", g.handleUpdateUser)
		r.Delete("/{userId}", g.forwardHandler)
	})

	router.Route("/items", func(r chi.Router) {
		r.Post("/", g.withCaller(g.handleCreateItem))
		r.Get("/", g.withCaller(g.handlePaginated))
		r.Get("/search", g.handlePaginated)
		r.Get("/{itemId}", g.withCaller(g.forwardHandler))
		r.Patch("/{itemId}", g.withCaller(g.forwardHandler))
		r.Post("/{itemId}/comment", g.withCaller(g.handleAddComment))
	})

	router.Route("/bookings", func(r chi.Router) {
		r.Post("/", g.withCaller(g.handleCreateBooking))
		r.Get("/", g.withCaller(g.handleListBookings))
		r.Get("/owner", g.withCaller(g.handleListBookings))
		r.Get("/{bookingId}", g.withCaller(g.forwardHandler))
		r.Patch("/{bookingId}", g.withCaller(g.handleDecideBooking))
	})

	router.Route("/requests", func(r chi.Router) {
		r.Post("/", g.withCaller(g.handleAddRequest))
		r.Get("/", g.withCaller(g.forwardHandler))
		r.Get("/all", g.withCaller(g.handlePaginated))
		r.Get("/{requestId}", g.withCaller(g.forwardHandler))
	})

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return g
}

// Handler returns the routed handler, used directly in tests.
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

// withCaller rejects requests without a well-formed identity header before
// any other validation runs.
func (g *Gateway) withCaller(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := callerID(r); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		next(w, r)
	}
}

func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", HeaderUserID)
	}
	return id, nil
}

// forwardHandler proxies the request as-is.
func (g *Gateway) forwardHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := g.readBody(w, r)
	if !ok {
		return
	}
	g.forward(w, r, body)
}

func (g *Gateway) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func (g *Gateway) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var body updateUserBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func (g *Gateway) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body createItemBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func (g *Gateway) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(time.Now()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func (g *Gateway) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.ParseBool(r.URL.Query().Get("approved")); err != nil {
		writeError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}
	g.forwardHandler(w, r)
}

func (g *Gateway) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := models.ParseState(r.URL.Query().Get("state")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.handlePaginated(w, r)
}

// handlePaginated checks from/size before proxying.
func (g *Gateway) handlePaginated(w http.ResponseWriter, r *http.Request) {
	if err := validatePagination(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forwardHandler(w, r)
}

func (g *Gateway) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var body commentBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func (g *Gateway) handleAddRequest(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	raw, ok := g.decodeBody(w, r, &body)
	if !ok {
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.forward(w, r, raw)
}

func validatePagination(r *http.Request) error {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return fmt.Errorf("from must be a non-negative integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return fmt.Errorf("size must be a positive integer")
		}
	}
	return nil
}

func (g *Gateway) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

func (g *Gateway) decodeBody(w http.ResponseWriter, r *http.Request, target any) ([]byte, bool) {
	raw, ok := g.readBody(w, r)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return raw, true
}

// forward proxies to the server and mirrors its status and body.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, body []byte) {
	pathWithQuery := r.URL.Path
	if r.URL.RawQuery != "" {
		pathWithQuery += "?" + r.URL.RawQuery
	}

	status, respBody, err := g.client.Forward(r.Context(), r.Method, pathWithQuery, r.Header, body)
	if err != nil {
		g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream error")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(respBody)
}

// limiterKey identifies a caller: the user header when present, the remote
// address otherwise.
func limiterKey(r *http.Request) string {
	if id := r.Header.Get(HeaderUserID); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return "addr:" + host
	}
	return "addr:unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
