package gitsync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"golang.org/x/crypto/ssh"
)

// CredentialProvider resolves the transport credentials for a remote URL.
// A nil AuthMethod with a nil error means the transport is used anonymously.
type CredentialProvider interface {
	Resolve(remoteURL string) (transport.AuthMethod, error)
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func(remoteURL string) (transport.AuthMethod, error)

// Resolve implements CredentialProvider.
func (f CredentialFunc) Resolve(remoteURL string) (transport.AuthMethod, error) {
	return f(remoteURL)
}

// NoAuth pushes without credentials, e.g. to local paths.
type NoAuth struct{}

// Resolve implements CredentialProvider.
func (NoAuth) Resolve(string) (transport.AuthMethod, error) {
	return nil, nil
}

// SSHKeyProvider authenticates with a private key file.
type SSHKeyProvider struct {
	User       string
	KeyPath    string
	Passphrase string
	// InsecureIgnoreHostKey skips known_hosts verification.
	InsecureIgnoreHostKey bool
}

// Resolve implements CredentialProvider.
func (p SSHKeyProvider) Resolve(remoteURL string) (transport.AuthMethod, error) {
	if strings.TrimSpace(p.KeyPath) == "" {
		return nil, errors.New("ssh key path is not configured")
	}
	user := p.User
	if user == "" {
		if ep, err := transport.NewEndpoint(remoteURL); err == nil {
			user = ep.User
		}
	}
	if user == "" {
		user = gitssh.DefaultUsername
	}
	keys, err := gitssh.NewPublicKeysFromFile(user, p.KeyPath, p.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("load ssh key %s: %w", p.KeyPath, err)
	}
	if p.InsecureIgnoreHostKey {
		keys.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec
	}
	return keys, nil
}

// TokenProvider authenticates HTTP(S) remotes with basic auth.
type TokenProvider struct {
	Username string
	Token    string
}

// Resolve implements CredentialProvider.
func (p TokenProvider) Resolve(string) (transport.AuthMethod, error) {
	if strings.TrimSpace(p.Token) == "" {
		return nil, errors.New("access token is not configured")
	}
	username := p.Username
	if username == "" {
		username = "git"
	}
	return &githttp.BasicAuth{Username: username, Password: p.Token}, nil
}

// AutoProvider picks SSH keys or a token based on the remote URL scheme.
// HTTP remotes without a token are used anonymously.
type AutoProvider struct {
	SSH   SSHKeyProvider
	Token TokenProvider
}

// Resolve implements CredentialProvider.
func (p AutoProvider) Resolve(remoteURL string) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	switch ep.Protocol {
	case "ssh":
		return p.SSH.Resolve(remoteURL)
	case "http", "https":
		if strings.TrimSpace(p.Token.Token) == "" {
			return nil, nil
		}
		return p.Token.Resolve(remoteURL)
	default:
		return nil, nil
	}
}
