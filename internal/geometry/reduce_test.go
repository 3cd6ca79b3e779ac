package geometry

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, s float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + s, y}, {x + s, y + s}, {x, y + s}, {x, y}}}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want orb.Point
	}{
		{name: "single polygon", geom: square(0, 0, 2), want: orb.Point{1, 1}},
		{name: "largest part wins", geom: orb.MultiPolygon{square(0, 0, 1), square(10, 10, 3), square(-5, -5, 2)}, want: orb.Point{11.5, 11.5}},
		{name: "largest part last", geom: orb.MultiPolygon{square(0, 0, 1), square(4, 4, 4)}, want: orb.Point{6, 6}},
		{name: "equal area keeps first part", geom: orb.MultiPolygon{square(0, 0, 2), square(10, 0, 2)}, want: orb.Point{1, 1}},
		{name: "degenerate part skipped", geom: orb.MultiPolygon{orb.Polygon{orb.Ring{{0, 0}, {1, 1}}}, square(2, 2, 2)}, want: orb.Point{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(tt.geom)
			require.NoError(t, err)
			assert.InDelta(t, tt.want[0], got[0], 1e-9)
			assert.InDelta(t, tt.want[1], got[1], 1e-9)
		})
	}
}

func TestReducePicksPartWithMaximumArea(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0, 1.5), square(20, 0, 2.5), square(40, 0, 0.5), square(60, 0, 2.5)}
	part, err := DominantPart(mp)
	require.NoError(t, err)
	_, best := centroidArea(part)
	for _, p := range mp {
		_, a := centroidArea(p)
		assert.GreaterOrEqual(t, best, a)
	}
	assert.Equal(t, mp[1], part)
}

func TestReduceHoleShiftsCentroid(t *testing.T) {
	outer := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	hole := orb.Ring{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}
	got, err := Reduce(orb.Polygon{outer, hole})
	require.NoError(t, err)
	assert.Greater(t, got[0], 2.0)
	assert.Greater(t, got[1], 2.0)
}

func TestReduceRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
	}{
		{name: "nil", geom: nil},
		{name: "empty multipolygon", geom: orb.MultiPolygon{}},
		{name: "polygon without rings", geom: orb.Polygon{}},
		{name: "short ring", geom: orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {0, 0}}}},
		{name: "zero area", geom: orb.Polygon{orb.Ring{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}},
		{name: "only degenerate parts", geom: orb.MultiPolygon{orb.Polygon{}, orb.Polygon{orb.Ring{{0, 0}}}}},
		{name: "point", geom: orb.Point{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce(tt.geom)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGeometry))
			var ig *InvalidGeometryError
			assert.True(t, errors.As(err, &ig))
		})
	}
}

func TestNewConstituency(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0, 1), square(10, 10, 2)}
	c, err := NewConstituency("Amritsar North", mp)
	require.NoError(t, err)
	assert.Equal(t, "Amritsar North", c.Name)
	assert.InDelta(t, 11.0, c.Point[0], 1e-9)
	assert.InDelta(t, 4.0, c.Area, 1e-9)
	// 包围盒覆盖完整几何
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{12, 12}}, c.Bound)

	_, err = NewConstituency("Broken", orb.MultiPolygon{})
	var ig *InvalidGeometryError
	require.True(t, errors.As(err, &ig))
	assert.Equal(t, "Broken", ig.Name)

	_, err = NewConstituency("", square(0, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
