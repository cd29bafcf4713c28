package data

import (
	"github.com/matrix-org/retro-bot/internal/biz/repo"
	"github.com/matrix-org/retro-bot/internal/infra/board"
	"github.com/matrix-org/retro-bot/internal/infra/matrix"
)

// Repositories contains all repositories
type Repositories struct {
	Board         repo.BoardRepo
	Chat          repo.ChatRepo
	Mention       repo.MentionRepo
	ReminderState repo.ReminderStateRepo
}

// NewRepositories creates all repositories
func NewRepositories(matrixClient *matrix.Client, boardClient *board.Client) *Repositories {
	return &Repositories{
		Board:         NewBoardRepo(boardClient),
		Chat:          NewChatRepo(matrixClient),
		Mention:       NewMentionRepo(matrixClient),
		ReminderState: NewReminderStateRepo(matrixClient),
	}
}
