// Package notify carries user-facing notifications out of band. Store and
// coordinator failures surface here instead of failing requests, so the UI
// always renders and the user still learns what went wrong.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies a notification for the client.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single toast-style message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier is the write side of the feed.
type Notifier interface {
	Success(message string)
	Error(message string)
}

const defaultFeedLimit = 50

// Feed is a bounded in-memory notification buffer drained by the web client.
// Every entry is mirrored to the structured log.
type Feed struct {
	mu     sync.Mutex
	items  []Notification
	limit  int
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewFeed(logger *zap.SugaredLogger) *Feed {
	return &Feed{
		limit:  defaultFeedLimit,
		logger: logger,
		now:    time.Now,
	}
}

func (f *Feed) Success(message string) {
	f.push(Notification{Level: LevelSuccess, Message: message})
	if f.logger != nil {
		f.logger.Infow("notification", "level", LevelSuccess, "message", message)
	}
}

func (f *Feed) Error(message string) {
	f.push(Notification{Level: LevelError, Message: message})
	if f.logger != nil {
		f.logger.Errorw("notification", "level", LevelError, "message", message)
	}
}

// Drain returns all pending notifications and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (f *Feed) push(n Notification) {
	n.Time = f.now()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > f.limit {
		f.items = f.items[len(f.items)-f.limit:]
	}
}
