package cli

import (
	"errors"
	"io"

	"github.com/tesso57/rssss/internal/application/settings"
	"github.com/tesso57/rssss/internal/application/usecase"
	"github.com/tesso57/rssss/internal/infrastructure/codec"
	"github.com/tesso57/rssss/internal/infrastructure/config"
	"github.com/tesso57/rssss/internal/infrastructure/gitsync"
	"github.com/tesso57/rssss/internal/infrastructure/history"
	"github.com/tesso57/rssss/internal/infrastructure/logging"
	"github.com/tesso57/rssss/internal/infrastructure/store"
	"go.uber.org/zap"
)

// App holds the services a command runs against.
type App struct {
	Settings      settings.Settings
	Subscriptions usecase.SubscriptionService
	Sync          usecase.SyncService
	History       usecase.HistoryService
	Log           *zap.Logger
	Out           io.Writer

	journal *history.Manager
}

// NewApp loads configuration and wires the services.
func NewApp(configPath, logLevel string, out io.Writer) (*App, error) {
	cfgStore, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg := cfgStore.Settings
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	docs := store.NewFileStore()
	c, err := selectCodec(docs, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	journal := history.NewManager(cfg.HistoryFile)
	engine := gitsync.NewEngine(cfg.Sync.Branch, log.Named("sync")).WithCredentials(credentials(cfg.Sync))

	return &App{
		Settings:      cfg,
		Subscriptions: usecase.NewSubscriptionService(docs, c, journal, log.Named("subscriptions")),
		Sync:          usecase.NewSyncService(engine, journal, log.Named("sync")),
		History:       usecase.NewHistoryService(journal),
		Log:           log,
		Out:           out,
		journal:       journal,
	}, nil
}

// Close releases the journal and flushes the logger.
func (a *App) Close() error {
	err := a.journal.Close()
	_ = a.Log.Sync()
	return err
}

// SyncTarget describes the configured repository and remote.
func (a *App) SyncTarget() usecase.SyncTarget {
	return usecase.SyncTarget{
		Dir:        a.Settings.SyncDir(),
		File:       a.Settings.SubscriptionFile,
		RemoteName: a.Settings.Sync.RemoteName,
		RemoteURL:  a.Settings.Sync.RemoteURL,
		Author:     a.Settings.Author(),
	}
}

// selectCodec returns the codec for the configured format, or for the
// format detected in an existing file when the two disagree.
func selectCodec(docs store.FileStore, cfg settings.Settings, log *zap.Logger) (codec.Codec, error) {
	configured, err := codec.ForFormat(cfg.Format, log.Named("codec"))
	if err != nil {
		return nil, err
	}
	text, err := docs.Load(cfg.SubscriptionFile)
	if errors.Is(err, store.ErrNotFound) {
		return configured, nil
	}
	if err != nil {
		return nil, err
	}
	detected, err := codec.Detect(text)
	if err != nil || detected == configured.Format() {
		return configured, nil
	}
	log.Warn("subscription file format differs from configuration, using detected format",
		zap.String("file", cfg.SubscriptionFile),
		zap.String("configured", string(configured.Format())),
		zap.String("detected", string(detected)))
	return codec.ForFormat(string(detected), log.Named("codec"))
}

func credentials(cfg settings.SyncConfig) gitsync.CredentialProvider {
	return gitsync.AutoProvider{
		SSH: gitsync.SSHKeyProvider{
			User:                  cfg.SSHUser,
			KeyPath:               cfg.SSHKeyPath,
			Passphrase:            cfg.SSHPassphrase,
			InsecureIgnoreHostKey: cfg.InsecureIgnoreHostKey,
		},
		Token: gitsync.TokenProvider{
			Username: cfg.Username,
			Token:    cfg.Token,
		},
	}
}
