package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/tesso57/rssss/internal/domain/journal"
)

type stubHistoryRepo struct {
	mock.Mock
}

func (s *stubHistoryRepo) Recent(ctx context.Context, limit int) ([]journal.Event, error) {
	args := s.Called(ctx, limit)
	events, _ := args.Get(0).([]journal.Event)
	return events, args.Error(1)
}

func TestHistoryService_Recent(t *testing.T) {
	repo := &stubHistoryRepo{}
	repo.On("Recent", mock.Anything, 3).Return([]journal.Event{{Op: journal.OpAdd}}, nil).Once()

	got, err := NewHistoryService(repo).Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 || got[0].Op != journal.OpAdd {
		t.Fatalf("Recent() = %#v", got)
	}
	repo.AssertExpectations(t)
}

func TestHistoryService_NotConfigured(t *testing.T) {
	if _, err := (HistoryService{}).Recent(context.Background(), 3); err == nil {
		t.Fatal("expected error without repository")
	}
}
