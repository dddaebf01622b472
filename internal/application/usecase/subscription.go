// Package usecase contains application-level services.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tesso57/rssss/internal/domain/journal"
	"github.com/tesso57/rssss/internal/domain/subscription"
	"go.uber.org/zap"
)

// DocumentStore abstracts durable storage of the serialized subscription list.
type DocumentStore interface {
	Load(path string) (string, error)
	Save(path, text string) error
	EnsureDefault(path, seed string) (bool, error)
	CopyTo(src, target string) (string, error)
}

// DocumentCodec converts between text and documents.
type DocumentCodec interface {
	Parse(text string) (*subscription.Document, error)
	Serialize(doc *subscription.Document) (string, error)
}

// Journal records operations for later inspection.
type Journal interface {
	Record(ctx context.Context, ev journal.Event) error
}

// SubscriptionService provides subscription-related operations on a stored list.
type SubscriptionService struct {
	Store   DocumentStore
	Codec   DocumentCodec
	Journal Journal
	Log     *zap.Logger
	Now     func() time.Time
}

// NewSubscriptionService constructs a SubscriptionService. journal may be nil.
func NewSubscriptionService(store DocumentStore, codec DocumentCodec, journal Journal, log *zap.Logger) SubscriptionService {
	if log == nil {
		log = zap.NewNop()
	}
	return SubscriptionService{Store: store, Codec: codec, Journal: journal, Log: log, Now: time.Now}
}

// List returns the stored document.
func (s SubscriptionService) List(path string) (*subscription.Document, error) {
	return s.load(path)
}

// Find returns the entry with the given feed URL.
func (s SubscriptionService) Find(path, feedURL string) (subscription.Entry, bool, error) {
	doc, err := s.load(path)
	if err != nil {
		return subscription.Entry{}, false, err
	}
	e, ok := subscription.Find(doc, feedURL)
	return e, ok, nil
}

// Add stores a new entry. It reports false without rewriting the file when
// the feed URL is already subscribed.
func (s SubscriptionService) Add(ctx context.Context, path, title, feedURL string, opts subscription.EntryOptions) (bool, error) {
	doc, err := s.load(path)
	if err != nil {
		return false, err
	}
	entry := subscription.NewEntry(title, feedURL, opts)
	added, err := subscription.Add(doc, entry)
	if err != nil {
		return false, err
	}
	if !added {
		s.logger().Warn("subscription already exists", zap.String("feed_url", entry.FeedURL))
		return false, nil
	}
	if err := s.save(path, doc); err != nil {
		return false, err
	}
	s.record(ctx, journal.Event{Op: journal.OpAdd, Title: entry.Title, FeedURL: entry.FeedURL, Detail: path})
	return true, nil
}

// Remove deletes entries by feed URL and returns how many were removed.
// Nothing is written when no entry matches.
func (s SubscriptionService) Remove(ctx context.Context, path, feedURL string) (int, error) {
	return s.remove(ctx, path, feedURL, subscription.Remove, func(ev *journal.Event) { ev.FeedURL = feedURL })
}

// RemoveByTitle deletes entries by title.
//
// Deprecated: entries are identified by feed URL; use Remove.
func (s SubscriptionService) RemoveByTitle(ctx context.Context, path, title string) (int, error) {
	return s.remove(ctx, path, title, subscription.RemoveByTitle, func(ev *journal.Event) { ev.Title = title })
}

// Bootstrap writes the default list when path does not exist.
// It reports whether a file was created.
func (s SubscriptionService) Bootstrap(ctx context.Context, path string) (bool, error) {
	doc := subscription.DefaultDocument()
	now := s.now()
	doc.Created, doc.Modified = now, now
	seed, err := s.Codec.Serialize(doc)
	if err != nil {
		return false, err
	}
	created, err := s.Store.EnsureDefault(path, seed)
	if err != nil {
		return false, err
	}
	if created {
		s.record(ctx, journal.Event{Op: journal.OpBootstrap, Detail: path})
	}
	return created, nil
}

// CopyTo copies the stored list to target and returns the written path.
func (s SubscriptionService) CopyTo(ctx context.Context, path, target string) (string, error) {
	written, err := s.Store.CopyTo(path, target)
	if err != nil {
		return "", err
	}
	s.record(ctx, journal.Event{Op: journal.OpCopy, Detail: written})
	return written, nil
}

func (s SubscriptionService) remove(
	ctx context.Context,
	path, key string,
	fn func(*subscription.Document, string) (int, error),
	describe func(*journal.Event),
) (int, error) {
	doc, err := s.load(path)
	if err != nil {
		return 0, err
	}
	removed, err := fn(doc, key)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		s.logger().Warn("no subscription matched", zap.String("key", key))
		return 0, nil
	}
	if err := s.save(path, doc); err != nil {
		return 0, err
	}
	ev := journal.Event{Op: journal.OpRemove, Detail: fmt.Sprintf("%d removed", removed)}
	describe(&ev)
	s.record(ctx, ev)
	return removed, nil
}

func (s SubscriptionService) load(path string) (*subscription.Document, error) {
	text, err := s.Store.Load(path)
	if err != nil {
		return nil, err
	}
	doc, err := s.Codec.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func (s SubscriptionService) save(path string, doc *subscription.Document) error {
	doc.Modified = s.now()
	text, err := s.Codec.Serialize(doc)
	if err != nil {
		return err
	}
	return s.Store.Save(path, text)
}

func (s SubscriptionService) record(ctx context.Context, ev journal.Event) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Record(ctx, ev); err != nil {
		s.logger().Warn("failed to record history", zap.String("op", string(ev.Op)), zap.Error(err))
	}
}

// now returns the current UTC time at the precision documents can store.
func (s SubscriptionService) now() time.Time {
	clock := s.Now
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Second)
}

func (s SubscriptionService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
