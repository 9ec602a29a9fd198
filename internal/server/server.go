package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/julienschmidt/httprouter"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/health"
	"github.com/lcpu-club/openvscode-farm/internal/identity"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

const (
	routeStart  = "/start"
	routeStop   = "/stop"
	routeHealth = "/healthz"

	// RequestIDHeader carries the per-request id in both directions
	RequestIDHeader = "X-Request-Id"

	// DefaultRequestTimeout bounds a request when Config.RequestTimeout is unset
	DefaultRequestTimeout = 120 * time.Second

	// writeSlack covers writing the response once the handler is done
	writeSlack = 10 * time.Second
)

// Launcher starts a user's workspace
type Launcher interface {
	Launch(ctx context.Context, userID string) (*workspace.Result, error)
}

// Terminator stops a user's workspace
type Terminator interface {
	Terminate(ctx context.Context, userID string) error
}

// Config holds server configuration
type Config struct {
	// ListenAddr is the address to listen on (e.g., "127.0.0.1:3030")
	ListenAddr string

	Identity   identity.Provider
	Launcher   Launcher
	Terminator Terminator

	// Runtime and DataDir feed /healthz
	Runtime runtime.Runtime
	DataDir string

	// RequestTimeout is the longest a handler may run, a launch with its
	// inspect and cleanup included. It sizes the write and shutdown timeouts.
	RequestTimeout time.Duration
}

// Server is the HTTP front of the farm
type Server struct {
	config  *Config
	handler http.Handler
	server  *http.Server

	stopOnce sync.Once
	stopped  chan struct{}
	stopErr  error
}

// New creates a server and its routes
func New(cfg *Config) *Server {
	s := &Server{config: cfg, stopped: make(chan struct{})}

	router := httprouter.New()
	router.GET(routeStart, s.start)
	router.POST(routeStop, s.stop)
	router.GET(routeHealth, s.health)

	handler := handlers.CombinedLoggingHandler(logging.Writer(slog.LevelInfo, "http request"), router)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(logging.PanicLogger{}), handlers.PrintRecoveryStack(true))(handler)
	s.handler = withRequestID(handler)

	s.server = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.requestTimeout() + writeSlack,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until Stop
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener. After Stop it returns only once
// in-flight requests have drained, with the shutdown error if they did not.
func (s *Server) Serve(ln net.Listener) error {
	logging.Info("starting server", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	<-s.stopped
	return s.stopErr
}

// Stop gracefully shuts the server down, waiting for in-flight requests
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout()+writeSlack)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.stopOnce.Do(func() {
		s.stopErr = err
		close(s.stopped)
	})
	return err
}

func (s *Server) requestTimeout() time.Duration {
	if s.config.RequestTimeout > 0 {
		return s.config.RequestTimeout
	}
	return DefaultRequestTimeout
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(audit.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := s.config.Identity.Resolve(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.config.Launcher.Launch(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, res.URL.String(), http.StatusFound)
}

func (s *Server) stop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := s.config.Identity.Resolve(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.config.Terminator.Terminate(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	report := health.Check(r.Context(), s.config.Runtime, s.config.DataDir)

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Kind `json:"code"`
	Message string      `json:"message"`
}

// writeError logs the full error and answers with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	logging.Warn("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", audit.RequestID(r.Context()),
		"error", err)

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    errors.KindOf(err),
		Message: errors.PublicMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
