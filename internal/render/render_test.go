package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/app"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
)

func square(x, y, s float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + s, y}, {x + s, y + s}, {x, y + s}, {x, y}}}
}

func fixture(t *testing.T) *app.State {
	t.Helper()
	a, err := geometry.NewConstituency("Amritsar North", square(74, 31, 0.2))
	require.NoError(t, err)
	b, err := geometry.NewConstituency("Ludhiana East", square(75.8, 30.8, 0.2))
	require.NoError(t, err)
	tbl := &facility.Table{Records: []facility.Record{
		{Constituency: "Amritsar North", Facility: "Khalsa <College>", Sport: "Hockey", Ownership: "Govt", Area: "2", Lat: 31.1, Lon: 74.1},
		{Constituency: "Ludhiana East", Facility: "Guru Nanak Stadium", Sport: "Chess", Ownership: "M.C.", Area: "0", Lat: 30.9, Lon: 75.9},
	}}
	return app.Build(tbl, []geometry.Constituency{a, b}, app.Options{})
}

func TestIconFor(t *testing.T) {
	tests := map[string]string{
		"Basketball": "basketball-ball",
		"Volleyball": "volleyball-ball",
		"Football":   "futbol",
		"Cricket":    "baseball-ball",
		"Hockey":     "hockey-puck",
		"Kabaddi":    DefaultIcon,
		"football":   DefaultIcon,
		"":           DefaultIcon,
	}
	for sport, want := range tests {
		assert.Equal(t, want, IconFor(sport), sport)
	}
}

func TestPopup(t *testing.T) {
	r := facility.Record{Facility: "Khalsa <College>", Sport: "Hockey", Ownership: "Govt", Area: "2.5"}
	assert.Equal(t, "<b>Khalsa &lt;College&gt;</b><br>Hockey<br>Govt<br>Area: 2.5", Popup(r))
}

func TestFeatureCollectionSingleConstituency(t *testing.T) {
	s := fixture(t)
	v := s.View(app.Selection{Constituency: "Amritsar North"})
	fc := FeatureCollection(v)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, KindConstituency, fc.Features[0].Properties["kind"])
	assert.Equal(t, KindLabel, fc.Features[1].Properties["kind"])
	assert.Equal(t, KindFacility, fc.Features[2].Properties["kind"])
	assert.Equal(t, "hockey-puck", fc.Features[2].Properties["icon"])
	assert.Equal(t, orb.Point{74.1, 31.1}, fc.Features[2].Geometry)

	b, err := json.Marshal(fc)
	require.NoError(t, err)
	back, err := geojson.UnmarshalFeatureCollection(b)
	require.NoError(t, err)
	assert.Len(t, back.Features, 3)
}

func TestFeatureCollectionAll(t *testing.T) {
	s := fixture(t)
	fc := FeatureCollection(s.View(app.Selection{}))
	// 两个选区 + 两个设施，无标签
	require.Len(t, fc.Features, 4)
	for _, f := range fc.Features {
		assert.NotEqual(t, KindLabel, f.Properties["kind"])
	}
	assert.Len(t, OverlayCollection(s.View(app.Selection{})).Features, 2)
}

func TestMapPage(t *testing.T) {
	s := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, MapPage(&buf, s.View(app.Selection{Constituency: "Amritsar North"}), s, "/api"))
	out := buf.String()
	assert.Contains(t, out, "<title>"+Title+"</title>")
	assert.Contains(t, out, `<option value="Amritsar North" selected>`)
	assert.Contains(t, out, `<option value="All" selected>`)
	assert.Contains(t, out, "const-label")
	assert.Contains(t, out, "L.markerClusterGroup()")
	assert.Contains(t, out, "hockey-puck")
	assert.NotContains(t, out, "Khalsa <College>")
}

func TestMapPageEmpty(t *testing.T) {
	s := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, MapPage(&buf, s.View(app.Selection{Sport: "Polo"}), s, "/api"))
	out := buf.String()
	assert.Contains(t, out, "No facilities match the current filters.")
	assert.NotContains(t, out, "L.divIcon")
}

func TestSportChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SportChart(&buf, map[string]int{"Hockey": 3, "Cricket": 5}, "Amritsar North"))
	out := buf.String()
	assert.Contains(t, out, "Amritsar North")
	assert.Contains(t, out, "echarts")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Cricket")), bytes.Index(buf.Bytes(), []byte("Hockey")))
}
