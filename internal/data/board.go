package data

import (
	"context"

	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/infra/board"
)

// boardRepo implements repo.BoardRepo on the GitHub board client
type boardRepo struct {
	client *board.Client
}

// NewBoardRepo creates a GitHub-backed board repository
func NewBoardRepo(client *board.Client) repo.BoardRepo {
	return &boardRepo{client: client}
}

func (r *boardRepo) ListActionTexts(ctx context.Context) ([]string, error) {
	return r.client.ListColumnCards(ctx)
}
