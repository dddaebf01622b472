// Package settings defines application-level configuration data.
package settings

import (
	"path/filepath"
	"strings"

	"github.com/tesso57/rssss/internal/domain/versioning"
)

// SyncConfig defines how the subscription file is versioned and pushed.
type SyncConfig struct {
	RemoteName            string `yaml:"remote_name" kong:"help='Git remote name',default='rssss'"`
	RemoteURL             string `yaml:"remote_url" kong:"help='Git remote URL'"`
	Branch                string `yaml:"branch" kong:"help='Branch created for new repositories',default='main'"`
	AuthorName            string `yaml:"author_name" kong:"help='Commit author name',default='rssss'"`
	AuthorEmail           string `yaml:"author_email" kong:"help='Commit author email',default='rssss@localhost'"`
	SSHUser               string `yaml:"ssh_user" kong:"help='SSH user for ssh remotes',default='git'"`
	SSHKeyPath            string `yaml:"ssh_key_path" kong:"help='Private key for ssh remotes'"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key" kong:"help='Skip ssh host key verification',default='false'"`
	Username              string `yaml:"username" kong:"help='Username for https remotes',env='RSSSS_GIT_USERNAME'"`
	Token                 string `yaml:"-" kong:"help='Token for https remotes',env='RSSSS_GIT_TOKEN'"`
	SSHPassphrase         string `yaml:"-" kong:"help='Passphrase for the ssh key',env='RSSSS_SSH_PASSPHRASE'"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level" kong:"help='Log level (debug/info/warn/error)',default='warn'"`
	Format string `yaml:"format" kong:"help='Log format (console/json)',default='console'"`
}

// KeyMapConfig defines the keybindings of the interactive browser.
type KeyMapConfig struct {
	Up         string `yaml:"up" kong:"help='Up key',default='k,up'"`
	Down       string `yaml:"down" kong:"help='Down key',default='j,down'"`
	Top        string `yaml:"top" kong:"help='Top key',default='g,home'"`
	Bottom     string `yaml:"bottom" kong:"help='Bottom key',default='G,end'"`
	AddFeed    string `yaml:"add_feed" kong:"help='Add feed key',default='a'"`
	DeleteFeed string `yaml:"delete_feed" kong:"help='Delete feed key',default='x'"`
	Upload     string `yaml:"upload" kong:"help='Commit and push key',default='u'"`
	Back       string `yaml:"back" kong:"help='Back key',default='esc'"`
	Quit       string `yaml:"quit" kong:"help='Quit key',default='q'"`
}

// Settings represents the application configuration.
type Settings struct {
	SubscriptionFile string       `yaml:"subscription_file" kong:"help='Subscription list path'"`
	Format           string       `yaml:"format" kong:"help='Subscription list format (opml/rss)',default='opml'"`
	HistoryFile      string       `yaml:"history_file" kong:"help='History database path'"`
	Sync             SyncConfig   `yaml:"sync" kong:"embed,prefix='sync.'"`
	Log              LogConfig    `yaml:"log" kong:"embed,prefix='log.'"`
	KeyMap           KeyMapConfig `yaml:"keymap" kong:"embed,prefix='keymap.'"`
}

// SyncDir returns the directory versioned by sync.
func (s Settings) SyncDir() string {
	return filepath.Dir(s.SubscriptionFile)
}

// Author returns the commit identity.
func (s Settings) Author() versioning.Author {
	return versioning.Author{
		Name:  strings.TrimSpace(s.Sync.AuthorName),
		Email: strings.TrimSpace(s.Sync.AuthorEmail),
	}
}
