package usecase

import (
	"context"
	"fmt"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
	"github.com/matrix-org/retro-bot/internal/biz/repo"
)

// ActionsUsecase turns the board's action cards into sendable messages
type ActionsUsecase struct {
	board  repo.BoardRepo
	format *FormatUsecase
}

// NewActionsUsecase creates a new actions usecase
func NewActionsUsecase(board repo.BoardRepo, format *FormatUsecase) *ActionsUsecase {
	return &ActionsUsecase{
		board:  board,
		format: format,
	}
}

// Messages fetches the current action cards and formats each one
func (uc *ActionsUsecase) Messages(ctx context.Context) ([]*domain.FormattedMessage, error) {
	texts, err := uc.board.ListActionTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch actions: %w", err)
	}

	messages := make([]*domain.FormattedMessage, 0, len(texts))
	for _, text := range texts {
		msg, err := uc.format.Format(ctx, text)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
