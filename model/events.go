// SPDX-License-Identifier: Unlicense OR MIT

package model

import "github.com/alexdremov/notate-sub003/itemmodel"

// ChangeEvent is the sealed set of events the model publishes through
// Subscribe. Observers receive events by value, never a reference into
// the model's internals, following spec.md §9's "cyclic references"
// note: the subject never holds a back-reference into an observer's
// object graph.
type ChangeEvent interface {
	isChangeEvent()
}

// ItemsAdded is published once per add_item call.
type ItemsAdded struct {
	Items []*itemmodel.Item
}

// ItemsRemoved is published by delete_items and by the stroke/lasso
// eraser for every item they remove.
type ItemsRemoved struct {
	Items []*itemmodel.Item
}

// BackgroundChanged is published by update_layout when the background
// style changes.
type BackgroundChanged struct {
	Background Background
}

// PageConfigChanged is published by update_layout when the canvas type
// or page dimensions change.
type PageConfigChanged struct {
	Config PageConfig
}

func (ItemsAdded) isChangeEvent()        {}
func (ItemsRemoved) isChangeEvent()      {}
func (BackgroundChanged) isChangeEvent() {}
func (PageConfigChanged) isChangeEvent() {}

// Observer receives model change events. Per spec.md §4.B, the model
// calls observers only after its write lock has been released;
// observers must not call back into the model synchronously (that is a
// programming error), and must defer any such call to their own queue.
type Observer func(ChangeEvent)
