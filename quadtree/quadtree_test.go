// SPDX-License-Identifier: Unlicense OR MIT

package quadtree

import (
	"testing"

	"github.com/alexdremov/notate-sub003/f32"
)

// TestS1InsertRemoveQuery mirrors spec.md §8 scenario S1.
func TestS1InsertRemoveQuery(t *testing.T) {
	tree := New(f32.Rect(0, 0, 100, 100))
	tree.Insert(1, f32.Rect(60, 60, 80, 80))
	tree.Insert(2, f32.Rect(150, 150, 160, 160))

	if !tree.Remove(1, f32.Rect(60, 60, 80, 80)) {
		t.Fatal("Remove(1) should report true")
	}

	got := tree.Retrieve(nil, f32.Rect(0, 0, 200, 200))
	if len(got) != 1 || got[0].Handle != 2 {
		t.Fatalf("query after removal = %v, want only handle 2", got)
	}
}

func TestRetrieveNoDuplicates(t *testing.T) {
	tree := New(f32.Rect(0, 0, 100, 100))
	// A bounds box that straddles the root's midlines stays at the
	// root and must not also appear via a child's subtree.
	tree.Insert(1, f32.Rect(40, 40, 60, 60))
	got := tree.Retrieve(nil, f32.Rect(0, 0, 100, 100))
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1 (no duplicates)", len(got))
	}
}

func TestRetrieveIntersectionOnly(t *testing.T) {
	tree := New(f32.Rect(0, 0, 1000, 1000))
	tree.Insert(1, f32.Rect(0, 0, 10, 10))
	tree.Insert(2, f32.Rect(500, 500, 510, 510))
	got := tree.Retrieve(nil, f32.Rect(0, 0, 20, 20))
	if len(got) != 1 || got[0].Handle != 1 {
		t.Fatalf("query should return only the intersecting entry, got %v", got)
	}
}

// TestGrowThenRemove mirrors spec.md §8 invariant 4: insert, grow via
// further inserts, then remove the original item must still succeed.
func TestGrowThenRemove(t *testing.T) {
	tree := New(f32.Rect(0, 0, 100, 100))
	original := f32.Rect(10, 10, 20, 20)
	tree.Insert(1, original)

	// Force several growth episodes by inserting far outside the root.
	tree.Insert(2, f32.Rect(10000, 10000, 10010, 10010))
	tree.Insert(3, f32.Rect(-5000, -5000, -4990, -4990))
	tree.Insert(4, f32.Rect(20000, -20000, 20010, -19990))

	if !tree.Remove(1, original) {
		t.Fatal("Remove of the original item must succeed after root growth")
	}
	got := tree.Retrieve(nil, original)
	for _, e := range got {
		if e.Handle == 1 {
			t.Fatal("removed item must not be returned by a subsequent query")
		}
	}
}

func TestGrowthEnclosesTarget(t *testing.T) {
	tree := New(f32.Rect(0, 0, 10, 10))
	far := f32.Rect(-1000, 500, -990, 510)
	tree.Insert(1, far)
	if !containsRect(tree.Bounds(), far) {
		t.Fatalf("root bounds %v do not contain inserted target %v", tree.Bounds(), far)
	}
}

func TestSplitExceedsCapacity(t *testing.T) {
	tree := New(f32.Rect(0, 0, 1000, 1000))
	// 20 small entries, all inside the root's NW quadrant, so the
	// root's split pushes all of them down into children.
	for i := 0; i < 20; i++ {
		x := float32(10 + i)
		tree.Insert(int64(i), f32.Rect(x, x, x+1, x+1))
	}
	got := tree.Retrieve(nil, f32.Rect(0, 0, 1000, 1000))
	if len(got) != 20 {
		t.Fatalf("got %d entries after split, want 20", len(got))
	}
}

func TestCollapseAfterRemoveAll(t *testing.T) {
	tree := New(f32.Rect(0, 0, 1000, 1000))
	handles := make([]int64, 0, 20)
	for i := 0; i < 20; i++ {
		x := float32(10 + i)
		tree.Insert(int64(i), f32.Rect(x, x, x+1, x+1))
		handles = append(handles, int64(i))
	}
	for i, h := range handles {
		x := float32(10 + i)
		if !tree.Remove(h, f32.Rect(x, x, x+1, x+1)) {
			t.Fatalf("remove of handle %d failed", h)
		}
	}
	if tree.root.children != nil {
		t.Fatal("root should have collapsed its children once empty")
	}
}

func TestRemoveNonExistent(t *testing.T) {
	tree := New(f32.Rect(0, 0, 100, 100))
	tree.Insert(1, f32.Rect(0, 0, 1, 1))
	if tree.Remove(2, f32.Rect(0, 0, 1, 1)) {
		t.Fatal("removing a handle that was never inserted should report false")
	}
}
