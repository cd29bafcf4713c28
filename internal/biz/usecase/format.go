package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
)

// FormatUsecase converts raw action card text into sendable messages.
// A card line starts with an optional run of initials naming the people
// the action is assigned to, followed by the action text itself.
type FormatUsecase struct {
	mentions repo.MentionRepo
	initials map[string]string
	roomID   string
}

// NewFormatUsecase creates a new format usecase scoped to one room
func NewFormatUsecase(mentions repo.MentionRepo, initials map[string]string, roomID string) *FormatUsecase {
	return &FormatUsecase{
		mentions: mentions,
		initials: initials,
		roomID:   roomID,
	}
}

// Format renders one card line into a formatted message
func (uc *FormatUsecase) Format(ctx context.Context, raw string) (*domain.FormattedMessage, error) {
	// Colons are stripped for initials matching only, so "AB:" and "AB"
	// resolve the same person
	stripped := strings.Split(strings.ReplaceAll(raw, ":", ""), " ")

	var pills []domain.Pill
	taken := 0
	for _, part := range stripped {
		userID, ok := uc.initials[strings.ToUpper(part)]
		if !ok {
			break
		}
		pill, err := uc.mentions.PillForUser(ctx, userID, uc.roomID)
		if err != nil {
			return nil, fmt.Errorf("resolve mention for %s: %w", userID, err)
		}
		pills = append(pills, pill)
		taken++
	}

	// The trailing text is re-sliced from the unstripped line, so
	// punctuation inside the action itself survives intact
	rest := strings.Join(strings.Split(raw, " ")[taken:], " ")

	if len(pills) == 0 {
		pills = append(pills, domain.UnassignedPill())
	}

	texts := make([]string, len(pills))
	htmls := make([]string, len(pills))
	for i, pill := range pills {
		texts[i] = pill.Text
		htmls[i] = pill.HTML
	}

	return &domain.FormattedMessage{
		Body:          strings.Join(texts, " ") + " " + rest,
		FormattedBody: strings.Join(htmls, " ") + " " + rest,
		Kind:          domain.KindForText(rest),
	}, nil
}
