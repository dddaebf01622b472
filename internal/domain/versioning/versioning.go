// Package versioning defines checkpoint models for the tracked subscription file.
package versioning

import (
	"errors"
	"time"
)

var (
	// ErrNothingToCommit means the file is unchanged since the last checkpoint.
	ErrNothingToCommit = errors.New("nothing to commit")
	// ErrAuthFailed means credentials could not be resolved or were refused.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrRejected means the remote refused the update, e.g. a non-fast-forward push.
	ErrRejected = errors.New("push rejected")
	// ErrNoCheckpoint means the branch has no checkpoints yet.
	ErrNoCheckpoint = errors.New("no checkpoint on current branch")
	// ErrNoRemote means no remote exists and no URL was given to create one.
	ErrNoRemote = errors.New("remote not configured")
)

// CheckpointID is the hex hash of a checkpoint.
type CheckpointID string

// Short returns the abbreviated hash.
func (id CheckpointID) Short() string {
	if len(id) > 7 {
		return string(id[:7])
	}
	return string(id)
}

// Author identifies who created a checkpoint.
type Author struct {
	Name  string
	Email string
}

// Checkpoint is a recorded snapshot of the subscription file.
type Checkpoint struct {
	ID      CheckpointID
	Message string
	Author  Author
	When    time.Time
}
