// Package journal defines the local record of subscription changes.
package journal

import "time"

// Op names a journaled operation.
type Op string

// Journaled operations.
const (
	OpAdd       Op = "add"
	OpRemove    Op = "remove"
	OpBootstrap Op = "bootstrap"
	OpCopy      Op = "copy"
	OpSync      Op = "sync"
)

// Event is one journal entry.
type Event struct {
	ID      string    `db:"id"`
	Op      Op        `db:"op"`
	Title   string    `db:"title"`
	FeedURL string    `db:"feed_url"`
	Detail  string    `db:"detail"`
	At      time.Time `db:"at"`
}
