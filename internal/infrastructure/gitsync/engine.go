// Package gitsync versions the subscription file in a local git repository and
// pushes it to a remote.
//
// A tracked directory moves through Untracked, Initialized, Committed and
// Pushed. Nothing is retried: every failure is returned to the caller.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/tesso57/rssss/internal/domain/versioning"
	"go.uber.org/zap"
)

// DefaultBranch is the branch created for new repositories.
const DefaultBranch = "main"

// Engine runs git operations on a tracked directory.
type Engine struct {
	branch string
	creds  CredentialProvider
	log    *zap.Logger
	now    func() time.Time
}

// NewEngine creates an Engine that initializes repositories on branch.
func NewEngine(branch string, log *zap.Logger) *Engine {
	if strings.TrimSpace(branch) == "" {
		branch = DefaultBranch
	}
	if log == nil {
		log = zap.NewNop()
	}
	return new(Engine{branch: branch, creds: NoAuth{}, log: log, now: time.Now})
}

// WithCredentials returns a copy of the engine that authenticates with creds.
func (e *Engine) WithCredentials(creds CredentialProvider) *Engine {
	out := *e
	if creds != nil {
		out.creds = creds
	}
	return &out
}

// EnsureInitialized creates a repository in dir when there is none.
// It reports whether a repository was created.
func (e *Engine) EnsureInitialized(dir string) (bool, error) {
	_, err := git.PlainOpen(dir)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return false, &SyncError{Op: "open", Err: err}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, &SyncError{Op: "init", Err: err}
	}
	_, err = git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(e.branch),
		},
	})
	if err != nil {
		return false, &SyncError{Op: "init", Err: err}
	}
	e.log.Info("initialized repository", zap.String("dir", dir), zap.String("branch", e.branch))
	return true, nil
}

// Commit stages filePath and records it on the current branch. An empty
// message becomes "Update <filename>". versioning.ErrNothingToCommit is
// returned when the file is unchanged since the branch tip.
func (e *Engine) Commit(dir, filePath, message string, author versioning.Author) (versioning.CheckpointID, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", &SyncError{Op: "commit", Err: err}
	}
	rel, err := relativePath(dir, filePath)
	if err != nil {
		return "", &SyncError{Op: "commit", Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", &SyncError{Op: "commit", Err: err}
	}
	if _, err := wt.Add(rel); err != nil {
		return "", &SyncError{Op: "stage", Err: fmt.Errorf("%s: %w", rel, err)}
	}

	unchanged, err := matchesTip(repo, rel)
	if err != nil {
		return "", &SyncError{Op: "commit", Err: err}
	}
	if unchanged {
		return "", &SyncError{Op: "commit", Kind: versioning.ErrNothingToCommit, Err: fmt.Errorf("%s unchanged", rel)}
	}

	if strings.TrimSpace(message) == "" {
		message = "Update " + filepath.Base(filePath)
	}
	sig := &object.Signature{Name: author.Name, Email: author.Email, When: e.now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", &SyncError{Op: "commit", Err: err}
	}
	id := versioning.CheckpointID(hash.String())
	e.log.Info("created checkpoint", zap.String("id", id.Short()), zap.String("message", message))
	return id, nil
}

// Push sends the current branch to remoteName, creating the remote with
// remoteURL when it does not exist. An existing remote keeps its URL.
func (e *Engine) Push(ctx context.Context, dir, remoteName, remoteURL string, creds CredentialProvider) error {
	fail := func(kind, err error) error {
		return &SyncError{Op: "push", Remote: remoteName, URL: remoteURL, Kind: kind, Err: err}
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fail(nil, err)
	}
	remote, err := e.ensureRemote(repo, remoteName, remoteURL)
	if err != nil {
		return fail(nil, err)
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		remoteURL = urls[0]
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fail(versioning.ErrNoCheckpoint, nil)
	}
	if err != nil {
		return fail(nil, err)
	}
	if !head.Name().IsBranch() {
		return fail(nil, fmt.Errorf("HEAD is detached at %s", head.Hash()))
	}

	if creds == nil {
		creds = NoAuth{}
	}
	auth, err := creds.Resolve(remoteURL)
	if err != nil {
		return fail(versioning.ErrAuthFailed, err)
	}

	spec := config.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name()))
	err = remote.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		e.log.Info("remote already up to date", zap.String("remote", remoteName))
		return nil
	}
	if err != nil {
		return fail(classifyPushError(err), err)
	}
	e.log.Info("pushed branch",
		zap.String("remote", remoteName),
		zap.String("url", remoteURL),
		zap.String("ref", head.Name().String()))
	return nil
}

// Publish pushes like Push using the engine's credentials.
func (e *Engine) Publish(ctx context.Context, dir, remoteName, remoteURL string) error {
	return e.Push(ctx, dir, remoteName, remoteURL, e.creds)
}

// History returns up to limit checkpoints from the current branch, newest first.
// A repository without commits yields no checkpoints.
func (e *Engine) History(dir string, limit int) ([]versioning.Checkpoint, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, &SyncError{Op: "log", Err: err}
	}
	iter, err := repo.Log(&git.LogOptions{})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &SyncError{Op: "log", Err: err}
	}
	defer iter.Close()

	var out []versioning.Checkpoint
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(out) >= limit {
			return storer.ErrStop
		}
		out = append(out, versioning.Checkpoint{
			ID:      versioning.CheckpointID(c.Hash.String()),
			Message: strings.TrimSpace(c.Message),
			Author:  versioning.Author{Name: c.Author.Name, Email: c.Author.Email},
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, &SyncError{Op: "log", Err: err}
	}
	return out, nil
}

func (e *Engine) ensureRemote(repo *git.Repository, name, url string) (*git.Remote, error) {
	remote, err := repo.Remote(name)
	if err == nil {
		if urls := remote.Config().URLs; url != "" && len(urls) > 0 && urls[0] != url {
			e.log.Warn("remote url differs from configuration, keeping existing remote",
				zap.String("remote", name),
				zap.String("existing", urls[0]),
				zap.String("configured", url))
		}
		return remote, nil
	}
	if !errors.Is(err, git.ErrRemoteNotFound) {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, versioning.ErrNoRemote
	}
	remote, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("create remote: %w", err)
	}
	e.log.Info("created remote", zap.String("remote", name), zap.String("url", url))
	return remote, nil
}

// matchesTip reports whether the staged blob for rel equals the one at the branch tip.
func matchesTip(repo *git.Repository, rel string) (bool, error) {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	tip, err := repo.CommitObject(head.Hash())
	if err != nil {
		return false, err
	}
	tree, err := tip.Tree()
	if err != nil {
		return false, err
	}
	committed, err := tree.File(rel)
	if errors.Is(err, object.ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return false, err
	}
	staged, err := idx.Entry(rel)
	if err != nil {
		return false, err
	}
	return staged.Hash == committed.Hash, nil
}

func relativePath(dir, filePath string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absDir, absFile)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside repository %s", filePath, dir)
	}
	return filepath.ToSlash(rel), nil
}
