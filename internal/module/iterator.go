package module

import (
	"iter"

	"loom/internal/dynamic"
)

// IteratorFn turns a value of a registered type into a sequence for `for`
// loops.
type IteratorFn func(dynamic.Value) iter.Seq[dynamic.Value]

// SetIter registers the iterator for typ, replacing any existing one.
func (m *Module) SetIter(typ dynamic.TypeID, fn IteratorFn) {
	m.typeIterators[typ] = fn
}

func (m *Module) ContainsIter(typ dynamic.TypeID) bool {
	_, ok := m.typeIterators[typ]
	return ok
}

func (m *Module) GetIter(typ dynamic.TypeID) (IteratorFn, bool) {
	fn, ok := m.typeIterators[typ]
	return fn, ok
}
