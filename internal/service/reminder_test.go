package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/usecase"
)

func newTestScheduler(board *mockBoardRepo, chat *mockChatRepo, state *mockStateRepo, hour int) *ReminderScheduler {
	initials := map[string]string{"AB": "@alice:example.org"}
	formatUC := usecase.NewFormatUsecase(&mockMentionRepo{}, initials, testRoomID)
	actionsUC := usecase.NewActionsUsecase(board, formatUC)

	// Anchor the recurrence on today so the date gate is open
	now := time.Now()
	reminderUC := usecase.NewReminderUsecase(state, usecase.ReminderConfig{
		Recurrence: domain.Recurrence{
			Start:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			IntervalWeeks: 1,
			Hour:          hour,
		},
		CooldownDays: 5,
	}, zerolog.Nop())

	return NewReminderScheduler(actionsUC, reminderUC, chat, testRoomID, 30, zerolog.Nop())
}

func TestReminderTick_SendsAndPersists(t *testing.T) {
	board := &mockBoardRepo{texts: []string{"AB write minutes", "done ✅"}}
	chat := &mockChatRepo{}
	state := &mockStateRepo{}
	sched := newTestScheduler(board, chat, state, time.Now().Hour())

	sched.tick()

	if len(chat.messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(chat.messages))
	}
	// The reminder keeps the formatter-assigned kinds
	if chat.messages[0].Kind != domain.KindNormal {
		t.Errorf("Expected first message to stay normal, got %v", chat.messages[0].Kind)
	}
	if chat.messages[1].Kind != domain.KindNotice {
		t.Errorf("Expected checked-off message to be a notice, got %v", chat.messages[1].Kind)
	}
	if state.state == nil {
		t.Error("Expected the send time to be persisted")
	}
}

func TestReminderTick_GateClosed(t *testing.T) {
	board := &mockBoardRepo{texts: []string{"AB write minutes"}}
	chat := &mockChatRepo{}
	state := &mockStateRepo{}
	sched := newTestScheduler(board, chat, state, (time.Now().Hour()+1)%24)

	sched.tick()

	if len(chat.messages) != 0 {
		t.Errorf("Expected no sends outside the configured hour, got %d", len(chat.messages))
	}
	if state.state != nil {
		t.Error("Expected no state write when the gate is closed")
	}
}

func TestReminderTick_CooldownSuppresses(t *testing.T) {
	board := &mockBoardRepo{texts: []string{"AB write minutes"}}
	chat := &mockChatRepo{}
	state := &mockStateRepo{state: &domain.ReminderState{
		LastTimestamp: time.Now().Add(-24 * time.Hour),
	}}
	sched := newTestScheduler(board, chat, state, time.Now().Hour())

	sched.tick()

	if len(chat.messages) != 0 {
		t.Errorf("Expected the cooldown to suppress the send, got %d messages", len(chat.messages))
	}
}
