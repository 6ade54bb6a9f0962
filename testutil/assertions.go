// Package testutil provides assertion helpers and a shared test
// fixture for exercising the tracker's store and views.
package testutil

import (
	"errors"
	"testing"

	"github.com/didudo/didudo/types"
)

// AssertRecordCount checks that the slice contains the expected number
// of records.
func AssertRecordCount[T types.Record](t *testing.T, recs []T, expected int, context ...string) {
	t.Helper()
	if len(recs) != expected {
		ctx := ""
		if len(context) > 0 {
			ctx = " " + context[0]
		}
		t.Errorf("expected %d records%s, got %d", expected, ctx, len(recs))
	}
}

// AssertRecordExists verifies that a record with the given id exists in
// the slice.
func AssertRecordExists[T types.Record](t *testing.T, recs []T, id string) {
	t.Helper()
	for _, r := range recs {
		if r.RecordID() == id {
			return
		}
	}
	t.Errorf("record %s not found in results", id)
}

// AssertRecordNotExists verifies that no record with the given id
// exists in the slice.
func AssertRecordNotExists[T types.Record](t *testing.T, recs []T, id string) {
	t.Helper()
	for _, r := range recs {
		if r.RecordID() == id {
			t.Errorf("record %s should not be in results", id)
			return
		}
	}
}

// AssertNames verifies that the records carry exactly the given names
// in the given order.
func AssertNames[T types.Record](t *testing.T, recs []T, names ...string) {
	t.Helper()
	if len(recs) != len(names) {
		t.Errorf("expected %d records, got %d", len(names), len(recs))
		return
	}
	for i, r := range recs {
		if r.RecordName() != names[i] {
			t.Errorf("record %d: expected name %q, got %q", i, names[i], r.RecordName())
		}
	}
}

// AssertNotFound verifies that err is a not-found error for the given
// kind.
func AssertNotFound(t *testing.T, err error, kind types.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a not-found error, got nil")
	}
	var nf types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
	if nf.Kind != kind {
		t.Errorf("expected not-found kind %q, got %q", kind, nf.Kind)
	}
}

// AssertValidationRejected verifies that err is the empty-name
// validation error.
func AssertValidationRejected(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !errors.Is(err, types.ErrEmptyName) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}
