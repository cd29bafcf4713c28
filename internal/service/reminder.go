package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/biz/usecase"
)

// ReminderScheduler periodically checks the reminder gate and posts the
// current actions when a reminder is due
type ReminderScheduler struct {
	actionsUC  *usecase.ActionsUsecase
	reminderUC *usecase.ReminderUsecase
	chatRepo   repo.ChatRepo
	roomID     string

	cron     *cron.Cron
	cronSpec string
	log      zerolog.Logger
}

// NewReminderScheduler creates a new reminder scheduler checking the
// gate every tickMinutes minutes
func NewReminderScheduler(
	actionsUC *usecase.ActionsUsecase,
	reminderUC *usecase.ReminderUsecase,
	chatRepo repo.ChatRepo,
	roomID string,
	tickMinutes int,
	log zerolog.Logger,
) *ReminderScheduler {
	return &ReminderScheduler{
		actionsUC:  actionsUC,
		reminderUC: reminderUC,
		chatRepo:   chatRepo,
		roomID:     roomID,
		cron:       cron.New(),
		cronSpec:   fmt.Sprintf("*/%d * * * *", tickMinutes),
		log:        log,
	}
}

// Start registers the tick and starts the scheduler
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cronSpec, s.tick); err != nil {
		return fmt.Errorf("register reminder schedule: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.cronSpec).Msg("reminder scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("reminder scheduler stopped")
}

// tick runs one gate check. Errors are logged, never propagated: a
// failed tick must not take down the scheduler, the next tick retries.
func (s *ReminderScheduler) tick() {
	ctx := context.Background()
	now := time.Now()

	if !s.reminderUC.ShouldSend(ctx, now) {
		return
	}

	messages, err := s.actionsUC.Messages(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reminder: failed to fetch actions")
		return
	}

	// The reminder keeps the formatter-assigned kinds, done items stay
	// notices and open items arrive as regular messages
	for _, msg := range messages {
		if err := s.chatRepo.SendMessage(ctx, s.roomID, msg); err != nil {
			// Timestamp stays untouched so the next tick retries the send
			s.log.Error().Err(err).Msg("reminder: failed to send action")
			return
		}
	}

	if err := s.reminderUC.MarkSent(ctx, now); err != nil {
		s.log.Error().Err(err).Msg("reminder: failed to persist send time")
		return
	}

	s.log.Info().Int("actions", len(messages)).Msg("reminder sent")
}
