package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/infra/matrix"
	"github.com/matrix-org/retro-bot/internal/service"
)

// seenTTL is how long processed event ids are remembered for dedup
const seenTTL = 10 * time.Minute

// MatrixServer ties the sync loop to the command router and owns the
// scheduler lifecycle
type MatrixServer struct {
	matrixClient *matrix.Client
	cmdSvc       *service.CommandService
	scheduler    *service.ReminderScheduler // nil when reminders are disabled
	log          zerolog.Logger

	// Event deduplication cache, sync can redeliver events
	seenMu sync.Mutex
	seen   map[string]time.Time
}

// NewMatrixServer creates a new Matrix server
func NewMatrixServer(
	matrixClient *matrix.Client,
	cmdSvc *service.CommandService,
	scheduler *service.ReminderScheduler,
	log zerolog.Logger,
) *MatrixServer {
	return &MatrixServer{
		matrixClient: matrixClient,
		cmdSvc:       cmdSvc,
		scheduler:    scheduler,
		log:          log,
		seen:         make(map[string]time.Time),
	}
}

// Start starts the scheduler and runs the sync loop (blocking)
func (s *MatrixServer) Start() error {
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return err
		}
	}
	s.matrixClient.OnMessage(s.handleMessage)
	return s.matrixClient.Start()
}

// Stop stops the scheduler and the sync loop
func (s *MatrixServer) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.matrixClient.Stop()
}

// handleMessage feeds one received message into the command router
func (s *MatrixServer) handleMessage(msg *matrix.Message) {
	if s.isEventSeen(msg.EventID) {
		s.log.Debug().Str("event_id", msg.EventID).Msg("duplicate event ignored")
		return
	}
	s.markEventSeen(msg.EventID)

	err := s.cmdSvc.HandleMessage(context.Background(), &service.CommandRequest{
		RoomID:  msg.RoomID,
		EventID: msg.EventID,
		Sender:  msg.Sender,
		MsgType: msg.MsgType,
		Body:    msg.Body,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event_id", msg.EventID).Msg("command failed")
	}
}

func (s *MatrixServer) isEventSeen(eventID string) bool {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	_, ok := s.seen[eventID]
	return ok
}

func (s *MatrixServer) markEventSeen(eventID string) {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	now := time.Now()
	for id, seenAt := range s.seen {
		if now.Sub(seenAt) > seenTTL {
			delete(s.seen, id)
		}
	}
	s.seen[eventID] = now
}
