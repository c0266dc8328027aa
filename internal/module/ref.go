package module

import (
	"fmt"
	"strings"

	"loom/internal/hashing"
	"loom/token"
)

// Qualifier is one segment of a module path at a call site.
type Qualifier struct {
	Name string
	Pos  token.Position
}

// ModuleRef is the qualifier path in front of a qualified name, e.g. `a::b`
// in `a::b::x`. The first segment names a module binding in scope. Once the
// binding is found the evaluator caches its scope slot so later evaluations
// of the same call site skip the search.
type ModuleRef struct {
	parts []Qualifier
	index int // scope offset from the end, 1-based; 0 when unresolved

	hashQualifiers []string
}

// NewModuleRef builds a reference from at least one qualifier.
func NewModuleRef(parts ...Qualifier) *ModuleRef {
	if len(parts) == 0 {
		panic("module: empty module reference")
	}
	hq := make([]string, len(parts))
	hq[0] = hashing.RootQualifier
	for i, p := range parts[1:] {
		hq[i+1] = p.Name
	}
	return &ModuleRef{parts: parts, hashQualifiers: hq}
}

func (r *ModuleRef) Len() int { return len(r.parts) }

func (r *ModuleRef) Parts() []Qualifier { return r.parts }

// Root is the first segment, the scope binding.
func (r *ModuleRef) Root() Qualifier { return r.parts[0] }

// HashQualifiers is the qualifier list the module's index was built with:
// the root sentinel followed by every segment after the first.
func (r *ModuleRef) HashQualifiers() []string { return r.hashQualifiers }

// Index returns the cached scope offset, if set.
func (r *ModuleRef) Index() (int, bool) {
	return r.index, r.index > 0
}

func (r *ModuleRef) SetIndex(offset int) { r.index = offset }

func (r *ModuleRef) ResetIndex() { r.index = 0 }

// String renders every segment followed by `::`, e.g. `a::b::`.
func (r *ModuleRef) String() string {
	var b strings.Builder
	for _, p := range r.parts {
		b.WriteString(p.Name)
		b.WriteString(token.DoubleColon)
	}
	return b.String()
}

func (r *ModuleRef) GoString() string {
	names := make([]string, len(r.parts))
	for i, p := range r.parts {
		names[i] = p.Name
	}
	if i, ok := r.Index(); ok {
		return fmt.Sprintf("%v -> %d", names, i)
	}
	return fmt.Sprintf("%v", names)
}
