package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
)

// Server exposes a small HTTP surface for external supervision of the
// long-running bot process
type Server struct {
	identity  domain.BotIdentity
	roomID    string
	stateRepo repo.ReminderStateRepo

	server *http.Server
	port   int
	log    zerolog.Logger
}

// NewServer creates a new supervision server. The http.Server is built
// here so Stop is safe to call from another goroutine at any point in the
// lifecycle, including before Start.
func NewServer(identity domain.BotIdentity, roomID string, stateRepo repo.ReminderStateRepo, port int, log zerolog.Logger) *Server {
	s := &Server{
		identity:  identity,
		roomID:    roomID,
		stateRepo: stateRepo,
		port:      port,
		log:       log,
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/status", s.handleStatus)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: r,
	}
	return s
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("supervision server started")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.server.Shutdown(context.Background())
}

// statusResponse is the JSON shape of /status
type statusResponse struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name,omitempty"`
	RoomID       string `json:"room_id"`
	LastReminder string `json:"last_reminder,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		UserID:      s.identity.UserID,
		DisplayName: s.identity.DisplayName,
		RoomID:      s.roomID,
	}

	state, err := s.stateRepo.Load(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("status: failed to read reminder state")
	} else if state != nil {
		resp.LastReminder = state.LastTimestamp.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
