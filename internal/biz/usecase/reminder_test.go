package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

type mockStateRepo struct {
	state *domain.ReminderState
	err   error
	saved *domain.ReminderState
}

func (m *mockStateRepo) Load(ctx context.Context) (*domain.ReminderState, error) {
	return m.state, m.err
}

func (m *mockStateRepo) Save(ctx context.Context, state *domain.ReminderState) error {
	m.saved = state
	return nil
}

// gateNow is a Monday at 11:00, two weeks after the recurrence anchor
var gateNow = time.Date(2024, 5, 20, 11, 0, 0, 0, time.UTC)

func newTestReminderUsecase(state *mockStateRepo) *ReminderUsecase {
	cfg := ReminderConfig{
		Recurrence: domain.Recurrence{
			Start:         time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
			IntervalWeeks: 2,
			Hour:          11,
		},
		CooldownDays: 5,
	}
	return NewReminderUsecase(state, cfg, zerolog.Nop())
}

func TestShouldSend_NoStoredState(t *testing.T) {
	uc := newTestReminderUsecase(&mockStateRepo{})

	if !uc.ShouldSend(context.Background(), gateNow) {
		t.Error("Expected send with no stored state")
	}
}

func TestShouldSend_WithinCooldown(t *testing.T) {
	state := &mockStateRepo{state: &domain.ReminderState{
		LastTimestamp: gateNow.Add(-4 * 24 * time.Hour),
	}}
	uc := newTestReminderUsecase(state)

	if uc.ShouldSend(context.Background(), gateNow) {
		t.Error("Expected 4-day-old state to suppress the send")
	}
}

func TestShouldSend_CooldownExpired(t *testing.T) {
	state := &mockStateRepo{state: &domain.ReminderState{
		LastTimestamp: gateNow.Add(-6 * 24 * time.Hour),
	}}
	uc := newTestReminderUsecase(state)

	if !uc.ShouldSend(context.Background(), gateNow) {
		t.Error("Expected 6-day-old state to allow the send")
	}
}

func TestShouldSend_ReadFailureDefaultsToSend(t *testing.T) {
	state := &mockStateRepo{err: errors.New("storage down")}
	uc := newTestReminderUsecase(state)

	if !uc.ShouldSend(context.Background(), gateNow) {
		t.Error("Expected a state read failure to default to send")
	}
}

func TestShouldSend_OutsideRecurrence(t *testing.T) {
	uc := newTestReminderUsecase(&mockStateRepo{})

	// Wrong hour
	if uc.ShouldSend(context.Background(), gateNow.Add(time.Hour)) {
		t.Error("Expected no send outside the configured hour")
	}

	// Off-stride week
	if uc.ShouldSend(context.Background(), gateNow.AddDate(0, 0, 7)) {
		t.Error("Expected no send on an off-stride week")
	}
}

func TestMarkSent(t *testing.T) {
	state := &mockStateRepo{}
	uc := newTestReminderUsecase(state)

	if err := uc.MarkSent(context.Background(), gateNow); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if state.saved == nil || !state.saved.LastTimestamp.Equal(gateNow) {
		t.Errorf("Expected saved timestamp %v, got %+v", gateNow, state.saved)
	}
}
