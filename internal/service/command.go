package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/biz/usecase"
)

const (
	msgTypeText = "m.text"

	helpText = "Help:\n" +
		"!retro actions - Print current retro actions\n"

	noActionsText = "No actions 🎉"
)

// CommandRequest is the slice of a room message the router consumes
type CommandRequest struct {
	RoomID  string
	EventID string
	Sender  string
	MsgType string
	Body    string
}

// CommandService routes commands addressed to the bot in the notice room
type CommandService struct {
	actionsUC  *usecase.ActionsUsecase
	reminderUC *usecase.ReminderUsecase
	chatRepo   repo.ChatRepo
	identity   domain.BotIdentity
	roomID     string
	log        zerolog.Logger
}

// NewCommandService creates a new command service
func NewCommandService(
	actionsUC *usecase.ActionsUsecase,
	reminderUC *usecase.ReminderUsecase,
	chatRepo repo.ChatRepo,
	identity domain.BotIdentity,
	roomID string,
	log zerolog.Logger,
) *CommandService {
	return &CommandService{
		actionsUC:  actionsUC,
		reminderUC: reminderUC,
		chatRepo:   chatRepo,
		identity:   identity,
		roomID:     roomID,
		log:        log,
	}
}

// HandleMessage processes one inbound room message. Messages outside the
// notice room, non-text messages and messages without a recognized
// prefix are ignored with no side effects.
func (s *CommandService) HandleMessage(ctx context.Context, req *CommandRequest) error {
	if req.RoomID != s.roomID {
		return nil
	}
	if req.MsgType != msgTypeText || req.Body == "" {
		return nil
	}

	prefix, ok := matchPrefix(req.Body, s.identity.CommandPrefixes())
	if !ok {
		return nil
	}

	// Rewrite the command for easier parsing
	body := domain.CommandPrefix + req.Body[len(prefix):]

	if err := s.chatRepo.MarkRead(ctx, req.RoomID, req.EventID); err != nil {
		// A failed receipt is cosmetic, the command still runs
		s.log.Warn().Err(err).Str("event_id", req.EventID).Msg("failed to send read receipt")
	}

	args := strings.Split(body, " ")
	subcommand := ""
	if len(args) > 1 {
		subcommand = args[1]
	}

	switch subcommand {
	case "actions":
		return s.sendActions(ctx)
	case "status":
		return s.sendStatus(ctx)
	default:
		return s.chatRepo.SendNotice(ctx, s.roomID, helpText)
	}
}

// matchPrefix returns the first prefix the body starts with
func matchPrefix(body string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		if strings.HasPrefix(body, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// sendActions posts every current action card as an individual message.
// The command path forces the notice kind so other bots don't chain off
// the output.
func (s *CommandService) sendActions(ctx context.Context) error {
	messages, err := s.actionsUC.Messages(ctx)
	if err != nil {
		return fmt.Errorf("handle actions command: %w", err)
	}

	if len(messages) == 0 {
		return s.chatRepo.SendNotice(ctx, s.roomID, noActionsText)
	}

	for _, msg := range messages {
		msg.Kind = domain.KindNotice
		if err := s.chatRepo.SendMessage(ctx, s.roomID, msg); err != nil {
			return fmt.Errorf("send action: %w", err)
		}
	}
	return nil
}

// sendStatus reports the last reminder send and when the next one is
// eligible
func (s *CommandService) sendStatus(ctx context.Context) error {
	state, err := s.reminderUC.LastSent(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read reminder state for status")
		return s.chatRepo.SendNotice(ctx, s.roomID, "Reminder state is unavailable right now.")
	}
	if state == nil {
		return s.chatRepo.SendNotice(ctx, s.roomID, "No reminder has been sent yet.")
	}

	next := state.LastTimestamp.AddDate(0, 0, s.reminderUC.CooldownDays())
	status := fmt.Sprintf("Last reminder: %s\nNext reminder possible from: %s",
		state.LastTimestamp.Format(time.RFC1123),
		next.Format(time.RFC1123))
	return s.chatRepo.SendNotice(ctx, s.roomID, status)
}
