package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
)

// ReminderConfig contains the reminder gate parameters
type ReminderConfig struct {
	Recurrence   domain.Recurrence
	CooldownDays int
}

// ReminderUsecase decides whether a periodic reminder is due and records
// when one was sent
type ReminderUsecase struct {
	state repo.ReminderStateRepo
	cfg   ReminderConfig
	log   zerolog.Logger
}

// NewReminderUsecase creates a new reminder usecase
func NewReminderUsecase(state repo.ReminderStateRepo, cfg ReminderConfig, log zerolog.Logger) *ReminderUsecase {
	return &ReminderUsecase{
		state: state,
		cfg:   cfg,
		log:   log,
	}
}

// ShouldSend reports whether a reminder is due at now: the recurrence
// must match and the last stored send must be older than the cooldown
func (uc *ReminderUsecase) ShouldSend(ctx context.Context, now time.Time) bool {
	if !uc.cfg.Recurrence.Matches(now) {
		return false
	}

	state, err := uc.state.Load(ctx)
	if err != nil {
		// A transient storage failure must not silence the reminder
		// forever, treat it as "never sent"
		uc.log.Warn().Err(err).Msg("failed to read reminder state, assuming never sent")
		return true
	}
	if state == nil {
		return true
	}
	return state.AgeInDays(now) >= uc.cfg.CooldownDays
}

// MarkSent persists now as the last reminder time
func (uc *ReminderUsecase) MarkSent(ctx context.Context, now time.Time) error {
	return uc.state.Save(ctx, &domain.ReminderState{LastTimestamp: now})
}

// LastSent returns the stored state, or nil if no reminder was ever sent
func (uc *ReminderUsecase) LastSent(ctx context.Context) (*domain.ReminderState, error) {
	return uc.state.Load(ctx)
}

// CooldownDays returns the configured cooldown window
func (uc *ReminderUsecase) CooldownDays() int {
	return uc.cfg.CooldownDays
}
