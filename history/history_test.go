// SPDX-License-Identifier: Unlicense OR MIT

package history

import "testing"

// TestS3BatchUndoRedo mirrors spec.md §8 scenario S3.
func TestS3BatchUndoRedo(t *testing.T) {
	var items []int
	add := func(v int) Record {
		return Record{
			Undo: func() {
				for i, x := range items {
					if x == v {
						items = append(items[:i], items[i+1:]...)
						break
					}
				}
			},
			Redo: func() { items = append(items, v) },
		}
	}

	var m Manager
	m.StartBatch()
	items = append(items, 1)
	m.Push(add(1))
	items = append(items, 2)
	m.Push(add(2))
	m.EndBatch()

	if len(items) != 2 {
		t.Fatalf("items = %v, want [1 2]", items)
	}

	if !m.Undo() {
		t.Fatal("Undo should report true")
	}
	if len(items) != 0 {
		t.Fatalf("after undo, items = %v, want empty", items)
	}

	if !m.Redo() {
		t.Fatal("Redo should report true")
	}
	if len(items) != 2 || items[0] != 1 || items[1] != 2 {
		t.Fatalf("after redo, items = %v, want [1 2]", items)
	}
}

func TestNestedBatchIsNoOp(t *testing.T) {
	var log []string
	var m Manager
	m.StartBatch()
	m.StartBatch()
	m.Push(Record{Undo: func() { log = append(log, "undo") }, Redo: func() {}})
	m.EndBatch() // inner end: should not commit yet
	if m.CanUndo() {
		t.Fatal("batch should not commit until the outermost EndBatch")
	}
	m.EndBatch() // outer end: now it commits
	if !m.CanUndo() {
		t.Fatal("batch should commit after the outermost EndBatch")
	}
}

func TestUnbalancedEndBatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("unbalanced EndBatch should panic")
		}
	}()
	var m Manager
	m.EndBatch()
}

func TestNewBatchClearsRedoStack(t *testing.T) {
	var m Manager
	m.Push(Record{Undo: func() {}, Redo: func() {}})
	m.Undo()
	if !m.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}
	m.Push(Record{Undo: func() {}, Redo: func() {}})
	if m.CanRedo() {
		t.Fatal("committing a new batch must clear the redo stack")
	}
}

func TestUnbatchedPushIsIndividuallyUndoable(t *testing.T) {
	var calls int
	var m Manager
	m.Push(Record{Undo: func() { calls++ }, Redo: func() {}})
	m.Push(Record{Undo: func() { calls += 10 }, Redo: func() {}})
	m.Undo()
	if calls != 10 {
		t.Fatalf("Undo should undo only the most recent un-batched push, calls=%d", calls)
	}
	m.Undo()
	if calls != 11 {
		t.Fatalf("second Undo should undo the first push, calls=%d", calls)
	}
}
