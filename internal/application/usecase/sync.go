package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/tesso57/rssss/internal/domain/journal"
	"github.com/tesso57/rssss/internal/domain/versioning"
	"go.uber.org/zap"
)

// VersionControl abstracts the repository holding the subscription file.
type VersionControl interface {
	EnsureInitialized(dir string) (bool, error)
	Commit(dir, filePath, message string, author versioning.Author) (versioning.CheckpointID, error)
	Publish(ctx context.Context, dir, remoteName, remoteURL string) error
	History(dir string, limit int) ([]versioning.Checkpoint, error)
}

// SyncTarget names the file to checkpoint and where to push it.
type SyncTarget struct {
	Dir        string
	File       string
	RemoteName string
	RemoteURL  string
	Author     versioning.Author
}

// SyncResult reports what a sync did.
type SyncResult struct {
	Initialized bool
	Checkpoint  versioning.CheckpointID
	Pushed      bool
}

// Committed reports whether a new checkpoint was created.
func (r SyncResult) Committed() bool {
	return r.Checkpoint != ""
}

// SyncService checkpoints the subscription file and pushes it.
type SyncService struct {
	VCS     VersionControl
	Journal Journal
	Log     *zap.Logger
}

// NewSyncService constructs a SyncService. journal may be nil.
func NewSyncService(vcs VersionControl, journal Journal, log *zap.Logger) SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return SyncService{VCS: vcs, Journal: journal, Log: log}
}

// Sync initializes the repository when needed, commits the file and pushes
// the branch. An unchanged file still pushes. The push is skipped when no
// remote exists and no URL is configured.
func (s SyncService) Sync(ctx context.Context, target SyncTarget, message string) (SyncResult, error) {
	var res SyncResult
	if s.VCS == nil {
		return res, errors.New("sync is not configured")
	}
	log := s.logger()

	initialized, err := s.VCS.EnsureInitialized(target.Dir)
	if err != nil {
		return res, err
	}
	res.Initialized = initialized

	id, err := s.VCS.Commit(target.Dir, target.File, message, target.Author)
	switch {
	case errors.Is(err, versioning.ErrNothingToCommit):
		log.Info("subscription file unchanged", zap.String("file", target.File))
	case err != nil:
		return res, err
	default:
		res.Checkpoint = id
	}

	err = s.VCS.Publish(ctx, target.Dir, target.RemoteName, target.RemoteURL)
	switch {
	case errors.Is(err, versioning.ErrNoRemote) && target.RemoteURL == "":
		log.Info("no remote configured, skipping push", zap.String("remote", target.RemoteName))
	case err != nil:
		return res, err
	default:
		res.Pushed = true
	}

	detail := fmt.Sprintf("checkpoint=%s pushed=%t", res.Checkpoint.Short(), res.Pushed)
	s.record(ctx, journal.Event{Op: journal.OpSync, Detail: detail})
	return res, nil
}

// History returns up to limit checkpoints, newest first.
func (s SyncService) History(dir string, limit int) ([]versioning.Checkpoint, error) {
	if s.VCS == nil {
		return nil, errors.New("sync is not configured")
	}
	return s.VCS.History(dir, limit)
}

func (s SyncService) record(ctx context.Context, ev journal.Event) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Record(ctx, ev); err != nil {
		s.logger().Warn("failed to record history", zap.String("op", string(ev.Op)), zap.Error(err))
	}
}

func (s SyncService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
