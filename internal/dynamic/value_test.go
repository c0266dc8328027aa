package dynamic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X, Y int }

type ns struct{ copies *int }

func (n ns) CloneNamespace() Namespace {
	*n.copies++
	return n
}

func TestFromNormalizesNumbers(t *testing.T) {
	assert.Equal(t, int64(7), From(7).Any())
	assert.Equal(t, int64(7), From(uint8(7)).Any())
	assert.Equal(t, float64(1.5), From(float32(1.5)).Any())
	assert.Equal(t, TypeOf[int64](), From(int32(1)).TypeID())

	v := From(3)
	assert.Equal(t, v, From(v), "wrapping a Value is a no-op")
	assert.Equal(t, v, From(&v))
	assert.True(t, From(nil).IsUnit())
	assert.True(t, From((*Value)(nil)).IsUnit())
}

func TestFromKeepsOversizedUnsigned(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), From(uint64(math.MaxInt64)).Any())

	big := From(uint64(math.MaxUint64))
	assert.Equal(t, uint64(math.MaxUint64), big.Any(), "never wraps to a negative i64")
	assert.Equal(t, Custom, big.Kind())
	assert.NotEqual(t, TypeOf[int64](), big.TypeID())

	if uint64(^uint(0)) > math.MaxInt64 {
		assert.Equal(t, ^uint(0), From(^uint(0)).Any())
	}
}

func TestKinds(t *testing.T) {
	copies := 0
	cases := map[Kind]Value{
		Unit:   UnitValue(),
		Bool:   From(true),
		Int:    From(1),
		Float:  From(1.0),
		String: From("s"),
		Array:  From([]Value{From(1)}),
		Module: From(ns{copies: &copies}),
		Custom: From(point{1, 2}),
	}
	for kind, v := range cases {
		assert.Equal(t, kind, v.Kind(), kind.String())
	}
	assert.Equal(t, "i64", From(1).TypeName())
	assert.Contains(t, From(point{}).TypeName(), "point")
}

func TestCast(t *testing.T) {
	n, ok := From(5).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), n)

	_, ok = From("5").AsInt()
	assert.False(t, ok)

	p, ok := Cast[point](From(point{1, 2}))
	require.True(t, ok)
	assert.Equal(t, 2, p.Y)

	assert.Panics(t, func() { MustCast[string](From(1)) })
}

func TestCloneDeepCopiesArraysAndModules(t *testing.T) {
	inner := From([]Value{From(1)})
	outer := From([]Value{inner})

	c := outer.Clone()
	arr, _ := c.AsArray()
	innerCopy, _ := arr[0].AsArray()
	innerCopy[0] = From(99)

	orig, _ := outer.AsArray()
	origInner, _ := orig[0].AsArray()
	assert.Equal(t, int64(1), origInner[0].Any())

	copies := 0
	From(ns{copies: &copies}).Clone()
	assert.Equal(t, 1, copies)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(From(2), From(2.0)))
	assert.True(t, Equal(From("a"), From("a")))
	assert.False(t, Equal(From("a"), From(1)))
	assert.True(t, Equal(From([]Value{From(1), From("x")}), From([]Value{From(1), From("x")})))
	assert.False(t, Equal(From([]Value{From(1)}), From([]Value{From(1), From(2)})))
	assert.True(t, Equal(UnitValue(), UnitValue()))
	assert.False(t, Equal(From(func() {}), From(func() {})), "uncomparable values are never equal")
}

func TestString(t *testing.T) {
	assert.Equal(t, "()", UnitValue().String())
	assert.Equal(t, `[1, "a", true]`, From([]Value{From(1), From("a"), From(true)}).String())
	assert.Equal(t, "2.5", From(2.5).String())
}

func TestTypeIDKey(t *testing.T) {
	assert.Equal(t, "()", TypeIDOf(nil).Key())
	assert.Equal(t, "int64", TypeOf[int64]().Key())
	assert.Equal(t, "loom/internal/dynamic.point", TypeOf[point]().Key())
	assert.Equal(t, []TypeID{TypeOf[int64](), TypeOf[string]()}, TypeIDs([]Value{From(1), From("s")}))
}
