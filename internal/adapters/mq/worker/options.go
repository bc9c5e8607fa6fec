package worker

import (
	"github.com/emopulse/emopulse-api/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDeduper enables request-id deduplication. Items with an empty
// request id are never deduplicated.
func WithDeduper(d Deduper) Option {
	return func(w *InMemoryWorker) {
		w.deduper = d
	}
}
