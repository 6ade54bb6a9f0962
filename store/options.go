package store

import (
	"log/slog"
	"time"
)

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the structured logger used for operation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithTimeFunc sets a custom time function, used by tests for
// deterministic timestamps.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Store) { s.timeFunc = fn }
}
