package projection

import "github.com/didudo/didudo/types"

// Aggregates are computed on demand from the current child-level
// records, never cached, so they always reflect the latest toggles,
// additions and removals.

// DoneOpenCounts returns how many items are done and how many are open.
func DoneOpenCounts(items []types.Item) (done, open int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			open++
		}
	}
	return done, open
}

// CountInFolder returns how many categories belong to the folder.
func CountInFolder(categories []types.Category, folderID string) int {
	n := 0
	for _, c := range categories {
		if c.FolderID == folderID {
			n++
		}
	}
	return n
}
