package repo

import "context"

// BoardRepo is the project board repository interface
// Responsible for reading action cards from the configured board column
type BoardRepo interface {
	// ListActionTexts returns the note text of every card currently in
	// the configured column, in column order
	ListActionTexts(ctx context.Context) ([]string, error)
}
