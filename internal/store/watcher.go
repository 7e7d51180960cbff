package store

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/models"
)

// Snapshot is an immutable view of the full report collection.
// Subscribers must not mutate it; the watcher hands each of them the
// same backing slice.
type Snapshot []models.Report

// Clone returns an independent copy safe to mutate.
func (s Snapshot) Clone() []models.Report {
	out := make([]models.Report, len(s))
	copy(out, s)
	return out
}

// Handler receives every new snapshot, including the current one at
// subscription time.
type Handler func(Snapshot)

// Loader produces the current collection state, typically backed by
// the reportes table.
type Loader interface {
	ListAll(ctx context.Context) ([]models.Report, error)
}

// Watcher keeps an in-memory snapshot of the report collection fresh by
// listening on a Postgres notification channel and reloading on every
// notification.
type Watcher struct {
	dsn     string
	channel string
	loader  Loader

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	last     Snapshot
}

func NewWatcher(dsn, channel string, loader Loader) *Watcher {
	return &Watcher{
		dsn:      dsn,
		channel:  channel,
		loader:   loader,
		handlers: make(map[int]Handler),
	}
}

// Subscribe registers a handler and immediately delivers the latest
// snapshot to it, if one exists. The returned function unsubscribes.
func (w *Watcher) Subscribe(h Handler) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = h
	last := w.last
	w.mu.Unlock()

	if last != nil {
		h(last)
	}

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// Last returns the most recent snapshot.
func (w *Watcher) Last() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

// Refresh reloads the collection and fans the new snapshot out to all
// subscribers.
func (w *Watcher) Refresh(ctx context.Context) error {
	reports, err := w.loader.ListAll(ctx)
	if err != nil {
		return err
	}
	snap := Snapshot(reports)

	w.mu.Lock()
	w.last = snap
	handlers := make([]Handler, 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	for _, h := range handlers {
		h(snap)
	}
	return nil
}

// Run listens on the notification channel until ctx is cancelled. It
// performs an eager refresh on start so subscribers see data before the
// first change arrives.
func (w *Watcher) Run(ctx context.Context) error {
	listener := pq.NewListener(w.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil && logger.Log != nil {
			logger.Log.WithError(err).Warn("report listener event")
		}
	})
	defer listener.Close()

	if err := listener.Listen(w.channel); err != nil {
		return err
	}

	if err := w.Refresh(ctx); err != nil && logger.Log != nil {
		logger.Log.WithError(err).Error("initial report snapshot load failed")
	}

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-listener.Notify:
			// A nil notification after reconnect also means the state
			// may have changed; reload either way.
			if err := w.Refresh(ctx); err != nil && logger.Log != nil {
				logger.Log.WithError(err).Error("report snapshot refresh failed")
			}
		case <-ping.C:
			if err := listener.Ping(); err != nil && logger.Log != nil {
				logger.Log.WithError(err).Warn("report listener ping failed")
			}
		}
	}
}
