package usecase

import (
	"context"
	"errors"

	"github.com/tesso57/rssss/internal/domain/journal"
)

// HistoryRepository abstracts reading the operation journal.
type HistoryRepository interface {
	Recent(ctx context.Context, limit int) ([]journal.Event, error)
}

// HistoryService exposes past operations.
type HistoryService struct {
	Repo HistoryRepository
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(repo HistoryRepository) HistoryService {
	return HistoryService{Repo: repo}
}

// Recent returns up to limit events, newest first.
func (s HistoryService) Recent(ctx context.Context, limit int) ([]journal.Event, error) {
	if s.Repo == nil {
		return nil, errors.New("history is not configured")
	}
	return s.Repo.Recent(ctx, limit)
}
