// Package server accepts launcher commands from other local processes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/pkg/validation"
	"github.com/rs/zerolog/log"
)

// RequestTimeout bounds a single request, including the wait for the controller.
const RequestTimeout = 5 * time.Second

// Launcher is the part of the controller the server talks to.
type Launcher interface {
	Submit(ctx context.Context, cmd launcher.Command) error
	Snapshot() launcher.Snapshot
}

// CommandRequest is the body of POST /commands.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse is returned for an accepted command.
type CommandResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter returns the HTTP handler for l.
func NewRouter(l Launcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Post("/commands", handleCommand(l))
	r.Get("/state", handleState(l))
	return r
}

func handleCommand(l Launcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommandRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		id := uuid.NewString()
		cmd, err := launcher.ParseCommand(id, req.Command)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		err = l.Submit(r.Context(), cmd)
		switch {
		case err == nil:
			log.Info().Str("id", id).Str("remote", r.RemoteAddr).Msg("Accepted remote command")
			writeJSON(w, http.StatusAccepted, CommandResponse{ID: id})
		case errors.Is(err, launcher.ErrRemoteDisabled):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		case errors.Is(err, launcher.ErrLaunched), errors.Is(err, launcher.ErrStopped):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Str("id", id).Msg("Remote command failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
	}
}

func handleState(l Launcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, l.Snapshot())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

// Server serves the command API on a loopback address.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Listen binds addr, which must be a loopback address.
func Listen(addr string, l Launcher) (*Server, error) {
	if err := validation.ValidateListenAddress(addr); err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &Server{
		srv: &http.Server{Handler: NewRouter(l), ReadHeaderTimeout: RequestTimeout},
		ln:  ln,
	}, nil
}

// Addr is the bound address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Serve blocks until Shutdown.
func (s *Server) Serve() error {
	log.Info().Str("addr", s.Addr()).Msg("Listening for remote commands")
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
