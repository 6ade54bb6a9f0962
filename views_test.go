package didudo_test

import (
	"errors"
	"testing"

	"github.com/didudo/didudo"
	"github.com/didudo/didudo/projection"
	"github.com/didudo/didudo/testutil"
)

func TestFolderView(t *testing.T) {
	s, _ := testutil.LoadUniverse(t)
	tr := didudo.NewTracker(s)

	view := didudo.NewFolderView(tr)
	if err := view.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	testutil.AssertNames(t, view.All(), "Work", "Personal")

	t.Run("add appends at the tail", func(t *testing.T) {
		if _, err := view.Add("Hobby"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		testutil.AssertNames(t, view.All(), "Work", "Personal", "Hobby")
		// The store agrees.
		testutil.AssertRecordCount(t, tr.ListFolders(), 3)
	})

	t.Run("category counts computed per position", func(t *testing.T) {
		n, ok := view.CategoryCountAt(0)
		if !ok || n != 2 {
			t.Errorf("expected 2 categories in Work, got %d (ok=%v)", n, ok)
		}
		n, ok = view.CategoryCountAt(2)
		if !ok || n != 0 {
			t.Errorf("expected 0 categories in Hobby, got %d (ok=%v)", n, ok)
		}
	})

	t.Run("rename in place", func(t *testing.T) {
		if err := view.RenameAt(2, "  Hobbies "); err != nil {
			t.Fatalf("rename failed: %v", err)
		}
		f, _ := view.At(2)
		if f.Name != "Hobbies" {
			t.Errorf("expected trimmed rename in view, got %q", f.Name)
		}
		stored, _ := tr.Store().FolderByID(f.ID)
		if stored.Name != "Hobbies" {
			t.Errorf("store not updated: %q", stored.Name)
		}
	})

	t.Run("failed rename leaves view untouched", func(t *testing.T) {
		if err := view.RenameAt(0, "   "); err == nil {
			t.Fatal("expected validation error")
		}
		f, _ := view.At(0)
		if f.Name != "Work" {
			t.Errorf("view changed on failed rename: %q", f.Name)
		}
	})

	t.Run("remove cascades and shifts positions", func(t *testing.T) {
		personal, _ := view.At(1)
		if err := view.RemoveAt(1); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		testutil.AssertNames(t, view.All(), "Work", "Hobbies")
		testutil.AssertRecordNotExists(t, tr.ListFolders(), personal.ID)
	})

	t.Run("stale position is non-fatal", func(t *testing.T) {
		before := view.Len()
		if err := view.RemoveAt(99); !errors.Is(err, projection.ErrIndexOutOfRange) {
			t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
		}
		if view.Len() != before {
			t.Error("stale removal changed the view")
		}
	})
}

func TestCategoryView(t *testing.T) {
	s, u := testutil.LoadUniverse(t)
	tr := didudo.NewTracker(s)

	view := didudo.NewCategoryView(tr, u.Work.ID)
	if err := view.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	testutil.AssertNames(t, view.All(), "Sprint", "Backlog")

	t.Run("done and open counts per position", func(t *testing.T) {
		done, open, ok := view.CountsAt(0)
		if !ok {
			t.Fatal("position 0 missing")
		}
		// Sprint: Deploy staging is done; Review PR and Write tests open.
		if done != 1 || open != 2 {
			t.Errorf("expected done=1 open=2, got done=%d open=%d", done, open)
		}
	})

	t.Run("counts follow toggles immediately", func(t *testing.T) {
		if _, err := tr.ToggleDone(u.ReviewPR.ID); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		done, open, _ := view.CountsAt(0)
		if done != 2 || open != 1 {
			t.Errorf("expected done=2 open=1 after toggle, got done=%d open=%d", done, open)
		}
	})

	t.Run("search filters and flags", func(t *testing.T) {
		if err := view.Search("sprint"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !view.FilterActive() {
			t.Error("expected active filter")
		}
		testutil.AssertNames(t, view.All(), "Sprint")

		// Blank term restores the unfiltered listing.
		if err := view.Search("  "); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if view.FilterActive() {
			t.Error("filter still active after blank search")
		}
		testutil.AssertNames(t, view.All(), "Sprint", "Backlog")
	})

	t.Run("add and remove keep the store in step", func(t *testing.T) {
		c, err := view.Add("Icebox")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		testutil.AssertNames(t, view.All(), "Sprint", "Backlog", "Icebox")

		if err := view.RemoveAt(2); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		cats, _ := tr.ListCategories(u.Work.ID)
		testutil.AssertRecordNotExists(t, cats, c.ID)
	})

	t.Run("scope missing after folder deletion", func(t *testing.T) {
		other := didudo.NewCategoryView(tr, u.Personal.ID)
		if err := tr.Delete(didudo.KindFolder, u.Personal.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := other.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !other.ScopeMissing {
			t.Error("expected ScopeMissing after folder deletion")
		}
		if other.Len() != 0 {
			t.Errorf("expected empty view, got %d", other.Len())
		}
	})
}

func TestItemView(t *testing.T) {
	s, u := testutil.LoadUniverse(t)
	tr := didudo.NewTracker(s)

	view := didudo.NewItemView(tr, u.Errands.ID)
	if err := view.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	testutil.AssertNames(t, view.All(), "Buy milk", "Café order", "Post letter")

	t.Run("counts", func(t *testing.T) {
		done, open := view.Counts()
		if done != 1 || open != 2 {
			t.Errorf("expected done=1 open=2, got done=%d open=%d", done, open)
		}
	})

	t.Run("toggle round trip", func(t *testing.T) {
		it, err := view.ToggleAt(2)
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !it.Done {
			t.Error("expected done after toggle")
		}
		got, _ := view.At(2)
		if !got.Done {
			t.Error("view not updated after toggle")
		}

		it, err = view.ToggleAt(2)
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if it.Done {
			t.Error("expected open after second toggle")
		}
	})

	t.Run("search with diacritic folding", func(t *testing.T) {
		if err := view.Search("CAFE"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !view.FilterActive() {
			t.Error("expected active filter")
		}
		testutil.AssertNames(t, view.All(), "Café order")
	})

	t.Run("empty result with active filter is distinguishable", func(t *testing.T) {
		if err := view.Search("zzz"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if view.Len() != 0 {
			t.Errorf("expected no matches, got %d", view.Len())
		}
		if !view.FilterActive() {
			t.Error("empty search result must keep the filter flag")
		}

		if err := view.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if view.FilterActive() {
			t.Error("reload must clear the filter flag")
		}
		if view.Len() == 0 {
			t.Error("scope has items, view should not be empty")
		}
	})

	t.Run("add rename remove", func(t *testing.T) {
		if err := view.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		it, err := view.Add("Water plants")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		last := view.Len() - 1
		if got, _ := view.At(last); got.ID != it.ID {
			t.Error("added item not at the tail")
		}

		if err := view.RenameAt(last, "Water the plants"); err != nil {
			t.Fatalf("rename failed: %v", err)
		}
		stored, _ := tr.Store().ItemByID(it.ID)
		if stored.Name != "Water the plants" {
			t.Errorf("store not updated: %q", stored.Name)
		}

		if err := view.RemoveAt(last); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		items, _ := tr.ListItems(u.Errands.ID)
		testutil.AssertRecordNotExists(t, items, it.ID)
	})

	t.Run("scope missing after category deletion", func(t *testing.T) {
		if err := tr.Delete(didudo.KindCategory, u.Errands.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := view.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !view.ScopeMissing {
			t.Error("expected ScopeMissing after category deletion")
		}
	})
}

func TestViewsRefreshOnNotification(t *testing.T) {
	s, u := testutil.LoadUniverse(t)
	tr := didudo.NewTracker(s)

	folderView := didudo.NewFolderView(tr)
	if err := folderView.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// A parent screen typically reloads on any notification for the
	// scopes it displays.
	unsubscribe := tr.Subscribe(func(scopeID string) {
		_ = folderView.Load()
	})
	defer unsubscribe()

	if _, err := tr.AddCategory("Icebox", u.Work.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	n, ok := folderView.CategoryCountAt(0)
	if !ok || n != 3 {
		t.Errorf("expected refreshed count 3, got %d (ok=%v)", n, ok)
	}
}
