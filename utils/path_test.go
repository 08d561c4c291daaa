package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	p := NewPath("root", "a", "b")

	first, ok := p.First()
	assert.True(t, ok)
	assert.Equal(t, "root", first)

	last, ok := p.Last()
	assert.True(t, ok)
	assert.Equal(t, "b", last)

	assert.Equal(t, Path{"a", "b"}, p.Next())
	assert.Equal(t, Path{"b", "a", "root"}, p.Reversed())

	empty := NewPath()
	_, ok = empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)
	assert.Equal(t, Path{}, empty.Next())
}

func TestPathAddStringCopies(t *testing.T) {
	parent := NewPath("root", "a")
	child := parent.AddString("b")
	other := parent.AddString("c")

	assert.Equal(t, Path{"root", "a", "b"}, child)
	assert.Equal(t, Path{"root", "a", "c"}, other)
	// appending to one derived path never corrupts a sibling's
	assert.Equal(t, Path{"root", "a"}, parent)
}

func TestPathCommonPrefix(t *testing.T) {
	a := NewPath("root", "x", "z")
	b := NewPath("root", "y")

	assert.Equal(t, Path{"root"}, a.CommonPrefix(b))
	assert.Equal(t, Path{"root"}, b.CommonPrefix(a))
	assert.Equal(t, Path{"root", "x", "z"}, a.CommonPrefix(a))
	assert.Equal(t, Path{}, a.CommonPrefix(NewPath("other")))
}

func TestSortedKeysAndCloneMap(t *testing.T) {
	m := map[string]int{"zeta": 1, "alpha": 2, "mike": 3}
	assert.Equal(t, []string{"alpha", "mike", "zeta"}, SortedKeys(m))

	clone := CloneMap(m)
	clone["alpha"] = 9
	assert.Equal(t, 2, m["alpha"])
}

func TestUniqueSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueSlice([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []int{1}, UniqueSlice([]int{1, 1, 1}))
}
