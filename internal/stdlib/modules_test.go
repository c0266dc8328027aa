package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/dynamic"
	"loom/internal/engine"
	"loom/internal/errors"
	"loom/internal/stdlib"
)

func eval(t *testing.T, src string) dynamic.Value {
	t.Helper()
	e := engine.New(engine.WithResolver(stdlib.Resolver()))
	v, err := e.Eval(src)
	require.NoError(t, err)
	return v
}

func TestGetStandardModules(t *testing.T) {
	modules := stdlib.GetStandardModules()

	assert.Contains(t, modules, "std/math")
	assert.Contains(t, modules, "std/strings")
	assert.Contains(t, modules, "std/array")

	std := modules["std"]
	require.NotNil(t, std)
	assert.Equal(t, []string{"array", "math", "strings"}, std.SubModuleNames())
	assert.Equal(t, []string{"std", "std/array", "std/math", "std/strings"}, stdlib.Paths())
}

func TestIsKnownModule(t *testing.T) {
	assert.True(t, stdlib.IsKnownModule("std"))
	assert.True(t, stdlib.IsKnownModule("std/math"))
	assert.False(t, stdlib.IsKnownModule("std/unknown"))
	assert.False(t, stdlib.IsKnownModule("math"))
}

func TestMath(t *testing.T) {
	assert.Equal(t, int64(5), eval(t, `import "std/math" as m; m::abs(-5);`).Any())
	assert.Equal(t, 2.5, eval(t, `import "std/math" as m; m::abs(-2.5);`).Any())
	assert.Equal(t, int64(1024), eval(t, `import "std/math" as m; m::pow(2, 10);`).Any())
	assert.Equal(t, 3.0, eval(t, `import "std/math" as m; m::sqrt(9);`).Any())
	assert.Equal(t, int64(3), eval(t, `import "std/math" as m; m::floor(m::PI);`).Any())

	e := engine.New(engine.WithResolver(stdlib.Resolver()))
	_, err := e.Eval(`import "std/math" as m; m::pow(2, -1);`)
	assert.Equal(t, errors.ErrorInvalidArguments, errors.CodeOf(err))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "HELLO", eval(t, `import "std/strings" as s; s::upper("hello");`).Any())
	assert.Equal(t, true, eval(t, `import "std/strings" as s; s::starts_with("loom", "lo");`).Any())
	assert.Equal(t, "a-b-c", eval(t, `import "std/strings" as s; s::join(s::split("a,b,c", ","), "-");`).Any())
}

func TestArray(t *testing.T) {
	assert.Equal(t, true, eval(t, `import "std/array" as a; a::contains([1, "x", 3], "x");`).Any())
	assert.Equal(t, int64(-1), eval(t, `import "std/array" as a; a::index_of([1, 2], 5);`).Any())
	assert.Equal(t, int64(6), eval(t, `import "std/array" as a; a::sum([1, 2, 3]);`).Any())
	assert.Equal(t, int64(1), eval(t, `import "std/array" as a; a::last(a::reverse([1, 2, 3]));`).Any())
}

func TestNestedStdModule(t *testing.T) {
	v := eval(t, `import "std" as std; std::math::max(2, std::array::sum([1, 2]));`)
	assert.Equal(t, int64(3), v.Any())
}

func TestModulesAreIndependentCopies(t *testing.T) {
	e := engine.New(engine.WithResolver(stdlib.Resolver()))
	_, err := e.Eval(`import "std/math" as m; m::PI = 3;`)
	require.NoError(t, err)

	v, err := e.Eval(`import "std/math" as m; m::PI;`)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, v.Any(), 0.001)
}
