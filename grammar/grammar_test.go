package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/grammar"
)

const sample = `// sample module
import "util/math" as math;

let answer = 42;
const greeting = "hi \"there\"";
fn add(a, b) { return a + b; }
private fn helper() { return math::consts::pi * 2.0; }

for x in [1, 2, 3] {
    answer = answer + x;
}
if answer > 40 { print("big"); } else if answer == 0 { print("zero"); } else { print("small"); }
math::counter = 3;
arr.push(4);
export answer as result, add;
`

func TestParseSample(t *testing.T) {
	script, err := grammar.ParseString("sample.loom", sample)
	require.NoError(t, err)
	require.Len(t, script.Statements, 10)

	imp := script.Statements[0].Import
	require.NotNil(t, imp)
	assert.Equal(t, "util/math", imp.Path)
	assert.Equal(t, "math", imp.Alias)
	assert.Equal(t, 2, imp.Pos.Line)

	let := script.Statements[1].Let
	require.NotNil(t, let)
	assert.False(t, let.Const)
	assert.Equal(t, "answer", let.Name)

	cst := script.Statements[2].Let
	require.NotNil(t, cst)
	assert.True(t, cst.Const)
	assert.Equal(t, `hi "there"`, *cst.Value.Left.Value.Primary.Str)

	fn := script.Statements[3].Fn
	require.NotNil(t, fn)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.False(t, fn.Private)

	private := script.Statements[4].Fn
	require.NotNil(t, private)
	assert.True(t, private.Private)

	ret := private.Body.Statements[0].Return
	require.NotNil(t, ret)
	path := ret.Value.Left.Value.Primary.Path
	require.NotNil(t, path)
	assert.True(t, path.IsQualified())
	assert.Equal(t, "pi", path.Name())
	assert.Len(t, path.Qualifiers(), 2)
	assert.Equal(t, "math::consts::pi", path.String())

	require.NotNil(t, script.Statements[5].For)
	ifStmt := script.Statements[6].If
	require.NotNil(t, ifStmt)
	require.NotNil(t, ifStmt.Else)
	require.NotNil(t, ifStmt.Else.If)
	require.NotNil(t, ifStmt.Else.If.Else.Block)

	assign := script.Statements[7].Assign
	require.NotNil(t, assign)
	assert.Equal(t, "math::counter", assign.Target.String())

	method := script.Statements[8].Expr
	require.NotNil(t, method)
	require.Len(t, method.Expr.Left.Value.Methods, 1)
	assert.Equal(t, "push", method.Expr.Left.Value.Methods[0].Name)

	exp := script.Statements[9].Export
	require.NotNil(t, exp)
	require.Len(t, exp.Items, 2)
	assert.Equal(t, "result", exp.Items[0].ExportName())
	assert.Equal(t, "add", exp.Items[1].ExportName())
}

func TestQualifiedCall(t *testing.T) {
	script, err := grammar.ParseString("call.loom", `a::b::calc(1, "x", 2.5);`)
	require.NoError(t, err)

	call := script.Statements[0].Expr.Expr.Left.Value.Primary.Call
	require.NotNil(t, call)
	assert.Equal(t, "a::b::calc", call.Callee.String())
	assert.Len(t, call.Args, 3)
	assert.Equal(t, `a::b::calc(1, "x", 2.5)`, call.String())
}

func TestParseErrorPosition(t *testing.T) {
	_, err := grammar.ParseString("bad.loom", "let x = ;\n")
	require.Error(t, err)

	pos, msg, ok := grammar.ErrorPosition(err)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, "bad.loom", pos.Filename)
	assert.NotEmpty(t, msg)
}

func TestPrinterRoundTrip(t *testing.T) {
	script, err := grammar.ParseString("sample.loom", sample)
	require.NoError(t, err)

	again, err := grammar.ParseString("printed.loom", script.String())
	require.NoError(t, err)
	assert.Equal(t, script.String(), again.String())
}
