package data

import (
	"context"
	"fmt"
	"html"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/infra/matrix"
)

// chatRepo implements repo.ChatRepo on the Matrix client
type chatRepo struct {
	client *matrix.Client
}

// NewChatRepo creates a Matrix-backed chat repository
func NewChatRepo(client *matrix.Client) repo.ChatRepo {
	return &chatRepo{client: client}
}

func (r *chatRepo) SendMessage(ctx context.Context, roomID string, msg *domain.FormattedMessage) error {
	return r.client.SendFormatted(ctx, roomID, msg.Body, msg.FormattedBody, string(msg.Kind))
}

func (r *chatRepo) SendNotice(ctx context.Context, roomID, text string) error {
	return r.client.SendNotice(ctx, roomID, text)
}

func (r *chatRepo) MarkRead(ctx context.Context, roomID, eventID string) error {
	return r.client.MarkRead(ctx, roomID, eventID)
}

// mentionRepo implements repo.MentionRepo on the Matrix client
type mentionRepo struct {
	client *matrix.Client
}

// NewMentionRepo creates a Matrix-backed mention repository
func NewMentionRepo(client *matrix.Client) repo.MentionRepo {
	return &mentionRepo{client: client}
}

// PillForUser builds a mention pill: the plain form is the user's display
// name, the HTML form a matrix.to link. Falls back to the raw user id
// when the profile lookup fails or the user has no display name.
func (r *mentionRepo) PillForUser(ctx context.Context, userID, roomID string) (domain.Pill, error) {
	name, err := r.client.DisplayName(ctx, userID)
	if err != nil || name == "" {
		name = userID
	}
	return domain.Pill{
		Text: name,
		HTML: fmt.Sprintf(`<a href="https://matrix.to/#/%s">%s</a>`, userID, html.EscapeString(name)),
	}, nil
}
