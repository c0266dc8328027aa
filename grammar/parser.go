package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"loom/token"
)

var scriptParser = participle.MustBuild[Script](
	participle.Lexer(LoomLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(16),
)

// ParseString parses a script held in memory. filename is only used in
// positions.
func ParseString(filename, source string) (*Script, error) {
	return scriptParser.ParseString(filename, source)
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (*Script, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ToPosition converts a lexer position into a token position.
func ToPosition(p lexer.Position) token.Position {
	return token.Position{
		Filename: p.Filename,
		Line:     p.Line,
		Column:   p.Column,
		Offset:   p.Offset,
	}
}

// ErrorPosition extracts the position of a participle error, if any.
func ErrorPosition(err error) (token.Position, string, bool) {
	pe, ok := err.(participle.Error)
	if !ok {
		return token.Position{}, "", false
	}
	return ToPosition(pe.Position()), pe.Message(), true
}
