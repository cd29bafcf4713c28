package repo

import (
	"context"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

// ChatRepo is the chat room repository interface
// Responsible for sending messages into the notice room
type ChatRepo interface {
	// SendMessage sends a formatted message with both plain and HTML bodies
	SendMessage(ctx context.Context, roomID string, msg *domain.FormattedMessage) error

	// SendNotice sends a plain-text notice
	SendNotice(ctx context.Context, roomID, text string) error

	// MarkRead acknowledges an event with a read receipt
	MarkRead(ctx context.Context, roomID, eventID string) error
}

// MentionRepo renders user mentions within a room context
type MentionRepo interface {
	// PillForUser resolves a user id into its mention pill for roomID
	PillForUser(ctx context.Context, userID, roomID string) (domain.Pill, error)
}
