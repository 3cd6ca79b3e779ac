package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameKey(t *testing.T) {
	assert.Equal(t, NameKey("AMRITSAR NORTH"), NameKey("  Amritsar   north "))
	assert.NotEqual(t, NameKey("Amritsar North"), NameKey("Amritsar South"))
}

func TestIndexLookupAndLocate(t *testing.T) {
	a := mustConstituency(t, "Amritsar North", square(0, 0, 2))
	b := mustConstituency(t, "Ludhiana East", orb.MultiPolygon{square(10, 10, 2), square(20, 20, 1)})
	dup := mustConstituency(t, "AMRITSAR NORTH", square(50, 50, 1))
	ix := NewIndex([]Constituency{a, b, dup})
	require.Equal(t, 2, ix.Len())

	got, ok := ix.Lookup("amritsar  north")
	require.True(t, ok)
	assert.Equal(t, "Amritsar North", got.Name)
	_, ok = ix.Lookup("Patiala")
	assert.False(t, ok)

	got, ok = ix.Locate(orb.Point{20.5, 20.5})
	require.True(t, ok)
	assert.Equal(t, "Ludhiana East", got.Name)
	_, ok = ix.Locate(orb.Point{5, 5})
	assert.False(t, ok)
}

func TestContainsRespectsHoles(t *testing.T) {
	outer := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	hole := orb.Ring{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}}
	p := orb.Polygon{outer, hole}
	assert.True(t, Contains(p, orb.Point{0.5, 0.5}))
	assert.False(t, Contains(p, orb.Point{2, 2}))
	assert.False(t, Contains(orb.Point{0, 0}, orb.Point{0, 0}))
}
