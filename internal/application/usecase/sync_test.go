package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tesso57/rssss/internal/domain/journal"
	"github.com/tesso57/rssss/internal/domain/versioning"
)

type mockVersionControl struct {
	mock.Mock
}

func (m *mockVersionControl) EnsureInitialized(dir string) (bool, error) {
	args := m.Called(dir)
	return args.Bool(0), args.Error(1)
}

func (m *mockVersionControl) Commit(dir, filePath, message string, author versioning.Author) (versioning.CheckpointID, error) {
	args := m.Called(dir, filePath, message, author)
	id, _ := args.Get(0).(versioning.CheckpointID)
	return id, args.Error(1)
}

func (m *mockVersionControl) Publish(ctx context.Context, dir, remoteName, remoteURL string) error {
	args := m.Called(ctx, dir, remoteName, remoteURL)
	return args.Error(0)
}

func (m *mockVersionControl) History(dir string, limit int) ([]versioning.Checkpoint, error) {
	args := m.Called(dir, limit)
	out, _ := args.Get(0).([]versioning.Checkpoint)
	return out, args.Error(1)
}

var testTarget = SyncTarget{
	Dir:        "/home/me/.config/rssss",
	File:       "/home/me/.config/rssss/default.xml",
	RemoteName: "rssss",
	RemoteURL:  "git@example.com:me/feeds.git",
	Author:     versioning.Author{Name: "rssss", Email: "rssss@localhost"},
}

func TestSyncService_Sync(t *testing.T) {
	vcs := &mockVersionControl{}
	vcs.On("EnsureInitialized", testTarget.Dir).Return(true, nil).Once()
	vcs.On("Commit", testTarget.Dir, testTarget.File, "add feed", testTarget.Author).
		Return(versioning.CheckpointID("0123456789abcdef"), nil).Once()
	vcs.On("Publish", mock.Anything, testTarget.Dir, "rssss", testTarget.RemoteURL).Return(nil).Once()
	j := &stubJournal{}
	j.On("Record", mock.Anything, mock.MatchedBy(func(ev journal.Event) bool {
		return ev.Op == journal.OpSync && ev.Detail == "checkpoint=0123456 pushed=true"
	})).Return(nil).Once()

	res, err := NewSyncService(vcs, j, nil).Sync(context.Background(), testTarget, "add feed")
	require.NoError(t, err)
	assert.True(t, res.Initialized)
	assert.True(t, res.Committed())
	assert.True(t, res.Pushed)
	assert.Equal(t, versioning.CheckpointID("0123456789abcdef"), res.Checkpoint)
	vcs.AssertExpectations(t)
	j.AssertExpectations(t)
}

func TestSyncService_UnchangedStillPushes(t *testing.T) {
	vcs := &mockVersionControl{}
	vcs.On("EnsureInitialized", testTarget.Dir).Return(false, nil).Once()
	vcs.On("Commit", testTarget.Dir, testTarget.File, "", testTarget.Author).
		Return(versioning.CheckpointID(""), versioning.ErrNothingToCommit).Once()
	vcs.On("Publish", mock.Anything, testTarget.Dir, "rssss", testTarget.RemoteURL).Return(nil).Once()

	res, err := NewSyncService(vcs, nil, nil).Sync(context.Background(), testTarget, "")
	require.NoError(t, err)
	assert.False(t, res.Committed())
	assert.True(t, res.Pushed)
	vcs.AssertExpectations(t)
}

func TestSyncService_NoRemoteSkipsPush(t *testing.T) {
	target := testTarget
	target.RemoteURL = ""
	vcs := &mockVersionControl{}
	vcs.On("EnsureInitialized", target.Dir).Return(false, nil).Once()
	vcs.On("Commit", target.Dir, target.File, "", target.Author).
		Return(versioning.CheckpointID("abc"), nil).Once()
	vcs.On("Publish", mock.Anything, target.Dir, "rssss", "").
		Return(&wrappedErr{versioning.ErrNoRemote}).Once()

	res, err := NewSyncService(vcs, nil, nil).Sync(context.Background(), target, "")
	require.NoError(t, err)
	assert.True(t, res.Committed())
	assert.False(t, res.Pushed)
	vcs.AssertExpectations(t)
}

func TestSyncService_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*mockVersionControl)
		want  error
	}{
		{
			name: "init fails",
			setup: func(m *mockVersionControl) {
				m.On("EnsureInitialized", testTarget.Dir).Return(false, boom).Once()
			},
			want: boom,
		},
		{
			name: "commit fails",
			setup: func(m *mockVersionControl) {
				m.On("EnsureInitialized", testTarget.Dir).Return(false, nil).Once()
				m.On("Commit", testTarget.Dir, testTarget.File, "", testTarget.Author).
					Return(versioning.CheckpointID(""), boom).Once()
			},
			want: boom,
		},
		{
			name: "push rejected",
			setup: func(m *mockVersionControl) {
				m.On("EnsureInitialized", testTarget.Dir).Return(false, nil).Once()
				m.On("Commit", testTarget.Dir, testTarget.File, "", testTarget.Author).
					Return(versioning.CheckpointID("abc"), nil).Once()
				m.On("Publish", mock.Anything, testTarget.Dir, "rssss", testTarget.RemoteURL).
					Return(&wrappedErr{versioning.ErrRejected}).Once()
			},
			want: versioning.ErrRejected,
		},
		{
			name: "missing remote with configured url",
			setup: func(m *mockVersionControl) {
				m.On("EnsureInitialized", testTarget.Dir).Return(false, nil).Once()
				m.On("Commit", testTarget.Dir, testTarget.File, "", testTarget.Author).
					Return(versioning.CheckpointID("abc"), nil).Once()
				m.On("Publish", mock.Anything, testTarget.Dir, "rssss", testTarget.RemoteURL).
					Return(&wrappedErr{versioning.ErrNoRemote}).Once()
			},
			want: versioning.ErrNoRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcs := &mockVersionControl{}
			tt.setup(vcs)

			_, err := NewSyncService(vcs, nil, nil).Sync(context.Background(), testTarget, "")
			require.ErrorIs(t, err, tt.want)
			vcs.AssertExpectations(t)
		})
	}
}

func TestSyncService_NotConfigured(t *testing.T) {
	_, err := SyncService{}.Sync(context.Background(), testTarget, "")
	require.Error(t, err)
	_, err = SyncService{}.History(testTarget.Dir, 5)
	require.Error(t, err)
}

func TestSyncService_History(t *testing.T) {
	vcs := &mockVersionControl{}
	want := []versioning.Checkpoint{{ID: "abc", Message: "Update default.xml"}}
	vcs.On("History", testTarget.Dir, 5).Return(want, nil).Once()

	got, err := NewSyncService(vcs, nil, nil).History(testTarget.Dir, 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	vcs.AssertExpectations(t)
}

type wrappedErr struct {
	kind error
}

func (e *wrappedErr) Error() string { return "sync push: " + e.kind.Error() }
func (e *wrappedErr) Unwrap() error { return e.kind }
