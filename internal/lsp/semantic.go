package lsp

import (
	"slices"

	"github.com/alecthomas/participle/v2/lexer"

	"loom/grammar"
)

// SemanticToken is one highlighted range. Line and StartChar are 0-based.
type SemanticToken struct {
	Line      uint32
	StartChar uint32
	Length    uint32
	TokenType uint32
	Modifiers uint32
}

func collectSemanticTokens(script *grammar.Script) []SemanticToken {
	if script == nil {
		return nil
	}
	var tokens []SemanticToken
	for _, s := range script.Statements {
		tokens = append(tokens, statementTokens(s)...)
	}
	slices.SortStableFunc(tokens, func(a, b SemanticToken) int {
		if a.Line != b.Line {
			return int(a.Line) - int(b.Line)
		}
		return int(a.StartChar) - int(b.StartChar)
	})
	return tokens
}

func statementTokens(s *grammar.Statement) []SemanticToken {
	var tokens []SemanticToken
	switch {
	case s.Import != nil:
		tokens = append(tokens, keyword(s.Import.Pos, "import"))
	case s.Export != nil:
		tokens = append(tokens, keyword(s.Export.Pos, "export"))
	case s.Let != nil:
		if s.Let.Const {
			tokens = append(tokens, makeToken(s.Let.Pos, len("const"), "keyword", "readonly"))
		} else {
			tokens = append(tokens, keyword(s.Let.Pos, "let"))
		}
		tokens = append(tokens, exprTokens(s.Let.Value)...)
	case s.Fn != nil:
		if s.Fn.Private {
			tokens = append(tokens, makeToken(s.Fn.Pos, len("private"), "modifier", ""))
		} else {
			tokens = append(tokens, makeToken(s.Fn.Pos, len("fn"), "keyword", "declaration"))
		}
		tokens = append(tokens, blockTokens(s.Fn.Body)...)
	case s.For != nil:
		tokens = append(tokens, keyword(s.For.Pos, "for"))
		tokens = append(tokens, exprTokens(s.For.Iterable)...)
		tokens = append(tokens, blockTokens(s.For.Body)...)
	case s.While != nil:
		tokens = append(tokens, keyword(s.While.Pos, "while"))
		tokens = append(tokens, exprTokens(s.While.Cond)...)
		tokens = append(tokens, blockTokens(s.While.Body)...)
	case s.If != nil:
		tokens = append(tokens, ifTokens(s.If)...)
	case s.Return != nil:
		tokens = append(tokens, keyword(s.Return.Pos, "return"))
		tokens = append(tokens, exprTokens(s.Return.Value)...)
	case s.Block != nil:
		tokens = append(tokens, blockTokens(s.Block)...)
	case s.Assign != nil:
		tokens = append(tokens, pathTokens(s.Assign.Target, "variable")...)
		tokens = append(tokens, exprTokens(s.Assign.Value)...)
	case s.Expr != nil:
		tokens = append(tokens, exprTokens(s.Expr.Expr)...)
	}
	return tokens
}

func ifTokens(s *grammar.IfStmt) []SemanticToken {
	tokens := []SemanticToken{keyword(s.Pos, "if")}
	tokens = append(tokens, exprTokens(s.Cond)...)
	tokens = append(tokens, blockTokens(s.Then)...)
	if s.Else != nil {
		if s.Else.If != nil {
			tokens = append(tokens, ifTokens(s.Else.If)...)
		} else {
			tokens = append(tokens, blockTokens(s.Else.Block)...)
		}
	}
	return tokens
}

func blockTokens(b *grammar.Block) []SemanticToken {
	if b == nil {
		return nil
	}
	var tokens []SemanticToken
	for _, s := range b.Statements {
		tokens = append(tokens, statementTokens(s)...)
	}
	return tokens
}

func exprTokens(e *grammar.Expr) []SemanticToken {
	if e == nil {
		return nil
	}
	tokens := unaryTokens(e.Left)
	for _, op := range e.Ops {
		tokens = append(tokens, unaryTokens(op.Right)...)
	}
	return tokens
}

func unaryTokens(u *grammar.UnaryExpr) []SemanticToken {
	if u == nil || u.Value == nil {
		return nil
	}
	tokens := primaryTokens(u.Value.Primary)
	for _, m := range u.Value.Methods {
		for _, arg := range m.Args {
			tokens = append(tokens, exprTokens(arg)...)
		}
	}
	return tokens
}

func primaryTokens(p *grammar.PrimaryExpr) []SemanticToken {
	switch {
	case p == nil:
		return nil
	case p.Call != nil:
		tokens := pathTokens(p.Call.Callee, "function")
		for _, arg := range p.Call.Args {
			tokens = append(tokens, exprTokens(arg)...)
		}
		return tokens
	case p.Path != nil:
		return pathTokens(p.Path, "variable")
	case p.Array != nil:
		var tokens []SemanticToken
		for _, item := range p.Array.Items {
			tokens = append(tokens, exprTokens(item)...)
		}
		return tokens
	case p.Parens != nil:
		return exprTokens(p.Parens)
	}
	return nil
}

// pathTokens marks qualifiers as namespaces and the final segment as kind.
func pathTokens(p *grammar.Path, kind string) []SemanticToken {
	if p == nil {
		return nil
	}
	tokens := make([]SemanticToken, 0, len(p.Parts))
	for _, q := range p.Qualifiers() {
		tokens = append(tokens, makeToken(q.Pos, len(q.Name), "namespace", ""))
	}
	last := p.Parts[len(p.Parts)-1]
	return append(tokens, makeToken(last.Pos, len(last.Name), kind, ""))
}

func keyword(pos lexer.Position, word string) SemanticToken {
	return makeToken(pos, len(word), "keyword", "")
}

func makeToken(pos lexer.Position, length int, tokenType, modifier string) SemanticToken {
	var mods uint32
	if modifier != "" {
		mods = 1 << indexOf(SemanticTokenModifiers, modifier)
	}
	return SemanticToken{
		Line:      uint32(max(0, pos.Line-1)),
		StartChar: uint32(max(0, pos.Column-1)),
		Length:    uint32(length),
		TokenType: uint32(indexOf(SemanticTokenTypes, tokenType)),
		Modifiers: mods,
	}
}

// encodeSemanticTokens applies the LSP relative encoding to tokens sorted
// by position.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar uint32

	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevChar
		}
		data = append(data, deltaLine, deltaStart, t.Length, t.TokenType, t.Modifiers)
		prevLine = t.Line
		prevChar = t.StartChar
	}
	return data
}

func indexOf(list []string, target string) int {
	for i, item := range list {
		if item == target {
			return i
		}
	}
	return 0
}
