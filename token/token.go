// Package token holds the source positions and fixed separator tokens shared
// by the loom grammar, the module system and the evaluator.
package token

import "fmt"

// DoubleColon separates qualifiers in a module path, as in `a::b::x`.
const DoubleColon = "::"

// Position is a location in a script source. A zero Position means "none",
// used where the caller is expected to attach a position later.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// None returns the empty position.
func None() Position { return Position{} }

func (p Position) IsNone() bool { return p.Line == 0 }

func (p Position) String() string {
	if p.IsNone() {
		return "none"
	}
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
