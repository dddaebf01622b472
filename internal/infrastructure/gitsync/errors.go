package gitsync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/tesso57/rssss/internal/domain/versioning"
)

// SyncError describes a failed version-control operation.
// Kind is one of the versioning sentinel errors when the failure is classified.
type SyncError struct {
	Op     string
	Remote string
	URL    string
	Kind   error
	Err    error
}

func (e *SyncError) Error() string {
	var b strings.Builder
	b.WriteString("sync ")
	b.WriteString(e.Op)
	if e.Remote != "" {
		fmt.Fprintf(&b, " (remote %s", e.Remote)
		if e.URL != "" {
			fmt.Fprintf(&b, " %s", e.URL)
		}
		b.WriteString(")")
	}
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SyncError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// classifyPushError maps go-git push failures onto versioning.ErrAuthFailed and versioning.ErrRejected.
// Unrecognized failures return nil.
func classifyPushError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		errors.Is(err, transport.ErrInvalidAuthMethod):
		return versioning.ErrAuthFailed
	case errors.Is(err, git.ErrNonFastForwardUpdate),
		errors.Is(err, plumbing.ErrObjectNotFound):
		// the remote tip is unknown locally, so the remote has history we lack
		return versioning.ErrRejected
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "handshake failed"),
		strings.Contains(msg, "permission denied (publickey"):
		return versioning.ErrAuthFailed
	case strings.Contains(msg, "non-fast-forward"),
		strings.Contains(msg, "rejected"),
		strings.Contains(msg, "command error on"):
		return versioning.ErrRejected
	}
	return nil
}
