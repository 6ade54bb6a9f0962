package testutil

import (
	"path/filepath"
	"testing"

	"github.com/didudo/didudo/store"
	"github.com/didudo/didudo/types"
)

// Universe provides typed access to the shared test fixture: two
// folders, four categories and a spread of items covering done/open
// states, diacritics and names shared across scopes.
type Universe struct {
	// Folders
	Work     types.Folder // holds Sprint and Backlog
	Personal types.Folder // holds Errands and Reading

	// Work categories
	Sprint  types.Category // items: Review PR, Deploy staging, Write tests
	Backlog types.Category // items: Refactor config

	// Personal categories
	Errands types.Category // items: Buy milk (done), Café order, Post letter
	Reading types.Category // empty

	// Sprint items
	ReviewPR      types.Item
	DeployStaging types.Item // done
	WriteTests    types.Item

	// Backlog items
	RefactorConfig types.Item

	// Errands items
	BuyMilk    types.Item // done
	CafeOrder  types.Item // "Café order", exercises diacritic folding
	PostLetter types.Item
}

// LoadUniverse opens a JSON-backed store in a temp directory and
// populates it with the fixture data.
func LoadUniverse(t *testing.T) (*store.Store, *Universe) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "tracker.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	u := &Universe{}

	u.Work = mustAddFolder(t, s, "Work")
	u.Personal = mustAddFolder(t, s, "Personal")

	u.Sprint = mustAddCategory(t, s, "Sprint", u.Work.ID)
	u.Backlog = mustAddCategory(t, s, "Backlog", u.Work.ID)
	u.Errands = mustAddCategory(t, s, "Errands", u.Personal.ID)
	u.Reading = mustAddCategory(t, s, "Reading", u.Personal.ID)

	u.ReviewPR = mustAddItem(t, s, "Review PR", u.Sprint.ID)
	u.DeployStaging = mustAddItem(t, s, "Deploy staging", u.Sprint.ID)
	u.WriteTests = mustAddItem(t, s, "Write tests", u.Sprint.ID)

	u.RefactorConfig = mustAddItem(t, s, "Refactor config", u.Backlog.ID)

	u.BuyMilk = mustAddItem(t, s, "Buy milk", u.Errands.ID)
	u.CafeOrder = mustAddItem(t, s, "Café order", u.Errands.ID)
	u.PostLetter = mustAddItem(t, s, "Post letter", u.Errands.ID)

	for _, id := range []string{u.DeployStaging.ID, u.BuyMilk.ID} {
		updated, err := s.ToggleDone(id)
		if err != nil {
			t.Fatalf("failed to mark item done: %v", err)
		}
		if updated.ID == u.DeployStaging.ID {
			u.DeployStaging = updated
		} else {
			u.BuyMilk = updated
		}
	}

	return s, u
}

func mustAddFolder(t *testing.T, s *store.Store, name string) types.Folder {
	t.Helper()
	f, err := s.AddFolder(name)
	if err != nil {
		t.Fatalf("failed to add folder %q: %v", name, err)
	}
	return f
}

func mustAddCategory(t *testing.T, s *store.Store, name, folderID string) types.Category {
	t.Helper()
	c, err := s.AddCategory(name, folderID)
	if err != nil {
		t.Fatalf("failed to add category %q: %v", name, err)
	}
	return c
}

func mustAddItem(t *testing.T, s *store.Store, name, categoryID string) types.Item {
	t.Helper()
	it, err := s.AddItem(name, categoryID)
	if err != nil {
		t.Fatalf("failed to add item %q: %v", name, err)
	}
	return it
}
