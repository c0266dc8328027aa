package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loom/internal/dynamic"
)

var (
	i64 = dynamic.TypeOf[int64]()
	str = dynamic.TypeOf[string]()
)

func TestCalcIsDeterministic(t *testing.T) {
	q := []string{RootQualifier, "sub"}
	assert.Equal(t, Calc(q, "f", 2, []dynamic.TypeID{i64, str}), Calc(q, "f", 2, []dynamic.TypeID{i64, str}))
}

func TestCalcIsOrderSensitive(t *testing.T) {
	assert.NotEqual(t,
		Calc([]string{"a", "b"}, "f", 0, nil),
		Calc([]string{"b", "a"}, "f", 0, nil))
	assert.NotEqual(t,
		CalcArgs([]dynamic.TypeID{i64, str}),
		CalcArgs([]dynamic.TypeID{str, i64}))
}

func TestCalcSeparatesSections(t *testing.T) {
	// qualifier and name boundaries are not interchangeable
	assert.NotEqual(t, CalcVar([]string{"ab"}, "c"), CalcVar([]string{"a"}, "bc"))
	assert.NotEqual(t, CalcVar([]string{"a"}, "b"), CalcVar(nil, "ab"))
	assert.NotEqual(t, CalcDef(nil, "f", 1), CalcDef(nil, "f", 2))
}

func TestCalcNativeSplitsIntoHalves(t *testing.T) {
	q := []string{RootQualifier}
	params := []dynamic.TypeID{i64, str}

	native := CalcNative(q, "f", params)
	assert.Equal(t, native, CalcDef(q, "f", 2)^CalcArgs(params))
	assert.Equal(t, CalcArgs(params), native^CalcDef(q, "f", 2), "a call site recovers the argument half")
	assert.NotEqual(t, native, CalcNative(q, "f", []dynamic.TypeID{str, i64}))
}

func TestVarAndFunctionKeysDiffer(t *testing.T) {
	q := []string{RootQualifier}
	assert.NotEqual(t, CalcVar(q, "x"), CalcDef(q, "x", 1))
}
