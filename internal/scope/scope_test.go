package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/dynamic"
)

type fakeNamespace struct{ name string }

func (f *fakeNamespace) CloneNamespace() dynamic.Namespace {
	return &fakeNamespace{name: f.name}
}

func TestScopeShadowing(t *testing.T) {
	s := New()
	s.Push("x", 1)
	s.Push("y", "hello")
	s.Push("x", 2)

	v, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Any())
	assert.Equal(t, 3, s.Len())

	s.Rewind(2)
	v, ok = s.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Any(), "rewind should expose the outer binding")
}

func TestScopeSetAndAlias(t *testing.T) {
	s := New()
	s.Set("a", 10)
	s.Set("a", 11)
	assert.Equal(t, 1, s.Len(), "Set should replace an existing binding")

	assert.True(t, s.SetAlias("a", "answer"))
	assert.False(t, s.SetAlias("missing", "x"))
	assert.Equal(t, "answer", s.Entries()[0].Alias)
	assert.True(t, s.Entries()[0].Exported())
}

func TestScopeFindModule(t *testing.T) {
	s := New()
	s.Push("m", 5)
	s.PushModule("m", &fakeNamespace{name: "first"})
	s.Push("z", true)

	ns, offset, ok := s.FindModule("m")
	require.True(t, ok)
	assert.Equal(t, 2, offset)
	assert.Equal(t, "first", ns.(*fakeNamespace).name)

	again, ok := s.ModuleAt(offset, "m")
	require.True(t, ok)
	assert.Same(t, ns, again)

	_, ok = s.ModuleAt(1, "m")
	assert.False(t, ok, "offset 1 points at z")

	_, _, ok = s.FindModule("z")
	assert.False(t, ok, "plain variables are not modules")
}

func TestScopeCloneIsIndependent(t *testing.T) {
	s := New()
	s.Push("arr", []dynamic.Value{dynamic.From(1), dynamic.From(2)})
	s.PushModule("m", &fakeNamespace{name: "orig"})

	c := s.Clone()
	c.Set("arr", 0)
	c.Push("extra", 1)

	v, _ := s.Get("arr")
	assert.Equal(t, dynamic.Array, v.Kind())
	assert.Equal(t, 2, s.Len())

	orig, _, _ := s.FindModule("m")
	copied, _, _ := c.FindModule("m")
	assert.NotSame(t, orig, copied)
}

func TestScopeNames(t *testing.T) {
	s := New()
	s.Push("a", 1)
	s.Push("b", 2)
	s.PushConstant("a", 3)
	s.Push("c", 4)

	assert.Equal(t, []string{"c", "a", "b"}, s.Names())
	assert.Empty(t, New().Names())
}
