package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var LoomLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// String literals, unquoted by the parser
		{"String", `"(\\.|[^"\\])*"`, nil},

		// Numbers (float before integer)
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `[0-9]+`, nil},

		// Keywords and identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Module path separator
		{"DoubleColon", `::`, nil},

		// Operators (longest first)
		{"Operator", `(\|\||&&|==|!=|<=|>=|[-+*/%<>=!])`, nil},

		// Punctuation
		{"Punctuation", `[{}\[\](),;.]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
