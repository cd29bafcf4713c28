package repo

import (
	"context"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

// ReminderStateRepo persists the last-reminder timestamp in the bot
// account's remote key-value store
type ReminderStateRepo interface {
	// Load returns the stored state, or nil if nothing has been stored yet
	Load(ctx context.Context) (*domain.ReminderState, error)

	// Save overwrites the stored state
	Save(ctx context.Context, state *domain.ReminderState) error
}
