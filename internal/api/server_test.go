package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

type mockStateRepo struct {
	state *domain.ReminderState
	err   error
}

func (m *mockStateRepo) Load(ctx context.Context) (*domain.ReminderState, error) {
	return m.state, m.err
}

func (m *mockStateRepo) Save(ctx context.Context, state *domain.ReminderState) error {
	m.state = state
	return nil
}

func TestHandleStatus(t *testing.T) {
	last := time.Date(2024, 5, 20, 11, 0, 0, 0, time.UTC)
	srv := NewServer(
		domain.BotIdentity{UserID: "@retro:example.org", DisplayName: "Retro Bot"},
		"!room:example.org",
		&mockStateRepo{state: &domain.ReminderState{LastTimestamp: last}},
		0, zerolog.Nop(),
	)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.UserID != "@retro:example.org" {
		t.Errorf("Unexpected user id: %q", resp.UserID)
	}
	if resp.RoomID != "!room:example.org" {
		t.Errorf("Unexpected room id: %q", resp.RoomID)
	}
	if resp.LastReminder != "2024-05-20T11:00:00Z" {
		t.Errorf("Unexpected last reminder: %q", resp.LastReminder)
	}
}

func TestStopBeforeStart(t *testing.T) {
	srv := NewServer(domain.BotIdentity{UserID: "@retro:example.org"},
		"!room:example.org", &mockStateRepo{}, 0, zerolog.Nop())

	// Shutdown may land before Start when the process is signalled
	// during startup
	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop before Start failed: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start after Stop should return nil, got: %v", err)
	}
}

func TestHandleStatus_NoState(t *testing.T) {
	srv := NewServer(domain.BotIdentity{UserID: "@retro:example.org"},
		"!room:example.org", &mockStateRepo{}, 0, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.LastReminder != "" {
		t.Errorf("Expected no last reminder, got %q", resp.LastReminder)
	}
}
