// Package validation holds input validation shared by the store and the
// screen views.
package validation

import (
	"strings"

	"github.com/didudo/didudo/types"
)

// Name trims surrounding whitespace and rejects names that are empty or
// whitespace-only. The trimmed form is what gets persisted; a record name
// is never stored with leading or trailing whitespace.
func Name(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", types.ErrEmptyName
	}
	return trimmed, nil
}
