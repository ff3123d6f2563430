// SPDX-License-Identifier: MPL-2.0

package options

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// List is an insertion-order-preserving map from option keys to raw values.
// It is the currency of bulk operations: command-line ingestion produces
// one, and the store's bulk setters consume them in order. Re-setting an
// existing key replaces the value but keeps the original position.
type List struct {
	om *orderedmap.OrderedMap[Key, any]
}

// NewList returns an empty option list.
func NewList() *List {
	return &List{om: orderedmap.New[Key, any]()}
}

// Set stores a raw value for the key.
func (l *List) Set(k Key, v any) {
	l.om.Set(k, v)
}

// Get returns the raw value for the key.
func (l *List) Get(k Key) (any, bool) {
	return l.om.Get(k)
}

// Has reports whether the key is present.
func (l *List) Has(k Key) bool {
	_, ok := l.om.Get(k)
	return ok
}

// Delete removes the key if present.
func (l *List) Delete(k Key) {
	l.om.Delete(k)
}

// Len returns the number of entries.
func (l *List) Len() int {
	return l.om.Len()
}

// All iterates entries in insertion order.
func (l *List) All() iter.Seq2[Key, any] {
	return func(yield func(Key, any) bool) {
		for pair := l.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
