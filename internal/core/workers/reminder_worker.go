package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultReminderInterval = 10 * time.Second

// ReminderSource yields the name of a habit that still needs doing today.
type ReminderSource interface {
	Reminder() (string, bool)
}

type ReminderWorker struct {
	source   ReminderSource
	interval time.Duration
	notify   func(name string)
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

func NewReminderWorker(source ReminderSource, interval time.Duration, notify func(name string)) *ReminderWorker {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}

	return &ReminderWorker{
		source:   source,
		interval: interval,
		notify:   notify,
		logger:   slog.Default(),
	}
}

func (w *ReminderWorker) WithLogger(logger *slog.Logger) *ReminderWorker {
	w.logger = logger
	return w
}

// Start launches the ticker goroutine. Calling Start on a running worker is a no-op.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.stopped = make(chan struct{})

	go func(stopped chan struct{}) {
		defer close(stopped)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Debug("reminder worker started", "interval", w.interval)
		for {
			select {
			case <-ticker.C:
				w.Tick()
			case <-ctx.Done():
				w.logger.Debug("reminder worker shutting down")
				return
			}
		}
	}(w.stopped)
}

// Stop cancels the worker and waits for its goroutine to exit.
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	cancel, stopped := w.cancel, w.stopped
	w.cancel, w.stopped = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Tick runs one reminder selection and reports whether a reminder was sent.
func (w *ReminderWorker) Tick() bool {
	name, ok := w.source.Reminder()
	if !ok {
		return false
	}

	w.notify(name)
	return true
}
