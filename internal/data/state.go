package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/infra/matrix"
)

// accountDataKey is the account data slot holding the last reminder time.
// The key is kept from the original deployment so existing state carries
// over.
const accountDataKey = "im.vector.last_spam"

// reminderStateRecord is the wire shape of the stored state
type reminderStateRecord struct {
	LastTimestamp string `json:"last_timestamp"`
}

// reminderStateRepo implements repo.ReminderStateRepo on Matrix account data
type reminderStateRepo struct {
	client *matrix.Client
}

// NewReminderStateRepo creates an account-data-backed state repository
func NewReminderStateRepo(client *matrix.Client) repo.ReminderStateRepo {
	return &reminderStateRepo{client: client}
}

func (r *reminderStateRepo) Load(ctx context.Context) (*domain.ReminderState, error) {
	var record reminderStateRecord
	if err := r.client.GetAccountData(ctx, accountDataKey, &record); err != nil {
		if errors.Is(err, matrix.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", accountDataKey, err)
	}
	if record.LastTimestamp == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, record.LastTimestamp)
	if err != nil {
		return nil, fmt.Errorf("parse %s timestamp: %w", accountDataKey, err)
	}
	return &domain.ReminderState{LastTimestamp: ts}, nil
}

func (r *reminderStateRepo) Save(ctx context.Context, state *domain.ReminderState) error {
	record := reminderStateRecord{
		LastTimestamp: state.LastTimestamp.UTC().Format(time.RFC3339),
	}
	if err := r.client.SetAccountData(ctx, accountDataKey, &record); err != nil {
		return fmt.Errorf("write %s: %w", accountDataKey, err)
	}
	return nil
}
