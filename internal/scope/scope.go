// Package scope implements the ordered variable scope a loom script runs in.
//
// Entries are kept in insertion order and searched from the end, so a later
// `let` shadows an earlier one. An entry may carry an export alias; building a
// module from a script keeps only aliased entries.
package scope

import (
	"loom/internal/dynamic"
)

// EntryType tags how an entry was bound.
type EntryType int

const (
	Normal EntryType = iota
	Constant
	Module
)

func (t EntryType) String() string {
	switch t {
	case Constant:
		return "constant"
	case Module:
		return "module"
	default:
		return "normal"
	}
}

// Entry is one binding in a Scope.
type Entry struct {
	Name  string
	Type  EntryType
	Alias string // export alias, empty if not exported
	Value dynamic.Value
}

// Exported reports whether the entry carries an export alias.
func (e *Entry) Exported() bool { return e.Alias != "" }

// Scope is an ordered list of bindings.
type Scope struct {
	entries []Entry
}

// New creates an empty scope.
func New() *Scope {
	return &Scope{}
}

func (s *Scope) Len() int { return len(s.entries) }

func (s *Scope) IsEmpty() bool { return len(s.entries) == 0 }

// Push adds a normal variable.
func (s *Scope) Push(name string, value any) {
	s.push(name, Normal, dynamic.From(value))
}

// PushConstant adds a constant.
func (s *Scope) PushConstant(name string, value any) {
	s.push(name, Constant, dynamic.From(value))
}

// PushModule adds a module binding. The value must hold a namespace.
func (s *Scope) PushModule(name string, module dynamic.Namespace) {
	s.push(name, Module, dynamic.From(module))
}

// PushDynamic adds a normal variable holding an already wrapped value.
func (s *Scope) PushDynamic(name string, value dynamic.Value) {
	s.push(name, Normal, value)
}

func (s *Scope) push(name string, typ EntryType, value dynamic.Value) {
	s.entries = append(s.entries, Entry{Name: name, Type: typ, Value: value})
}

// Rewind truncates the scope back to size entries, dropping block locals.
func (s *Scope) Rewind(size int) {
	if size < len(s.entries) {
		clear(s.entries[size:])
		s.entries = s.entries[:size]
	}
}

// Index returns the position of the innermost entry named name.
func (s *Scope) Index(name string) (int, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether any entry is named name.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Index(name)
	return ok
}

// Get returns the value of the innermost entry named name.
func (s *Scope) Get(name string) (dynamic.Value, bool) {
	i, ok := s.Index(name)
	if !ok {
		return dynamic.Value{}, false
	}
	return s.entries[i].Value, true
}

// Entry returns a pointer to the entry at position i. The pointer is only
// valid until the scope grows.
func (s *Scope) Entry(i int) *Entry {
	return &s.entries[i]
}

// Set replaces the innermost variable named name, or pushes a new one.
func (s *Scope) Set(name string, value any) {
	if i, ok := s.Index(name); ok {
		s.entries[i].Value = dynamic.From(value)
		return
	}
	s.Push(name, value)
}

// SetAlias attaches an export alias to the innermost entry named name.
func (s *Scope) SetAlias(name, alias string) bool {
	i, ok := s.Index(name)
	if !ok {
		return false
	}
	s.entries[i].Alias = alias
	return true
}

// Names returns the distinct entry names, innermost first.
func (s *Scope) Names() []string {
	seen := make(map[string]bool, len(s.entries))
	var names []string
	for i := len(s.entries) - 1; i >= 0; i-- {
		if n := s.entries[i].Name; !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

// Entries returns the bindings in insertion order. The slice is shared.
func (s *Scope) Entries() []Entry {
	return s.entries
}

// FindModule returns the innermost module binding named name and its
// position counted from the end of the scope, starting at 1.
func (s *Scope) FindModule(name string) (dynamic.Namespace, int, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := &s.entries[i]
		if e.Name != name || e.Type != Module {
			continue
		}
		ns, ok := e.Value.AsNamespace()
		if !ok {
			return nil, 0, false
		}
		return ns, len(s.entries) - i, true
	}
	return nil, 0, false
}

// ModuleAt returns the module binding at offset from the end, as returned by
// FindModule, if it is still named name.
func (s *Scope) ModuleAt(offset int, name string) (dynamic.Namespace, bool) {
	i := len(s.entries) - offset
	if offset <= 0 || i < 0 {
		return nil, false
	}
	e := &s.entries[i]
	if e.Name != name || e.Type != Module {
		return nil, false
	}
	return e.Value.AsNamespace()
}

// Clone copies the scope. Values are cloned; embedded modules are deep copied.
func (s *Scope) Clone() *Scope {
	out := &Scope{entries: make([]Entry, len(s.entries))}
	for i, e := range s.entries {
		e.Value = e.Value.Clone()
		out.entries[i] = e
	}
	return out
}
