// Package projection provides the per-screen ordered working copy of a
// query result. A projection mirrors the store through explicit
// load/append/remove calls rather than being recomputed on every
// mutation; append and remove are only performed after the backing
// record has been durably persisted, so the projection never gets ahead
// of disk.
package projection

import (
	"errors"
	"log/slog"

	"github.com/didudo/didudo/types"
)

// ErrIndexOutOfRange reports a positional operation against a stale
// position, e.g. when two removal requests race. It is logged and
// non-fatal; the projection is left unchanged.
var ErrIndexOutOfRange = errors.New("position out of range")

// Projection is an ordered, mutable working copy of records for one
// screen. The store owns the canonical copies; a projection holds
// non-owning copies kept in sync by the screen's mutation calls.
type Projection[T types.Record] struct {
	records      []T
	filterActive bool
	logger       *slog.Logger
}

// New returns an empty projection. A nil logger falls back to the
// default logger.
func New[T types.Record](logger *slog.Logger) *Projection[T] {
	if logger == nil {
		logger = slog.Default().With("component", "projection")
	}
	return &Projection[T]{records: []T{}, logger: logger}
}

// Load replaces the whole projection with a fresh fetch and clears the
// filter flag. On fetch failure the projection is left unchanged.
func (p *Projection[T]) Load(fetch func() ([]T, error)) error {
	recs, err := fetch()
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []T{}
	}
	p.records = recs
	p.filterActive = false
	return nil
}

// SetFiltered replaces the projection with search results and marks the
// filter active, so an empty projection can be told apart from an empty
// scope.
func (p *Projection[T]) SetFiltered(recs []T) {
	if recs == nil {
		recs = []T{}
	}
	p.records = recs
	p.filterActive = true
}

// FilterActive reports whether the current contents are search results.
func (p *Projection[T]) FilterActive() bool { return p.filterActive }

// Append adds a persisted record at the tail.
func (p *Projection[T]) Append(rec T) {
	p.records = append(p.records, rec)
}

// RemoveAt removes the record at pos. A stale position returns
// ErrIndexOutOfRange and leaves the projection unchanged.
func (p *Projection[T]) RemoveAt(pos int) error {
	if pos < 0 || pos >= len(p.records) {
		p.logger.Warn("position out of range, skipping removal", "pos", pos, "len", len(p.records))
		return ErrIndexOutOfRange
	}
	p.records = append(p.records[:pos], p.records[pos+1:]...)
	return nil
}

// Replace swaps the record at pos for its updated copy.
func (p *Projection[T]) Replace(pos int, rec T) error {
	if pos < 0 || pos >= len(p.records) {
		p.logger.Warn("position out of range, skipping replace", "pos", pos, "len", len(p.records))
		return ErrIndexOutOfRange
	}
	p.records[pos] = rec
	return nil
}

// At returns the record at pos.
func (p *Projection[T]) At(pos int) (T, bool) {
	if pos < 0 || pos >= len(p.records) {
		var zero T
		return zero, false
	}
	return p.records[pos], true
}

// Len returns the number of records in the projection.
func (p *Projection[T]) Len() int { return len(p.records) }

// All returns a copy of the projection's records in order.
func (p *Projection[T]) All() []T {
	cp := make([]T, len(p.records))
	copy(cp, p.records)
	return cp
}
