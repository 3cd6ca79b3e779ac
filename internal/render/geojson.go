package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/app"
)

// 要素种类属性
const (
	KindConstituency = "constituency"
	KindLabel        = "label"
	KindFacility     = "facility"
)

// 文档注释：视图转为 GeoJSON FeatureCollection
// 约束：先输出选中选区的完整几何，单选区时追加代表点标签，最后输出设施点；坐标顺序为（经度, 纬度）。
func FeatureCollection(v app.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range v.Overlays {
		f := geojson.NewFeature(c.Geometry)
		f.Properties["kind"] = KindConstituency
		f.Properties["name"] = c.Name
		f.Properties["rep_x"] = c.Point[0]
		f.Properties["rep_y"] = c.Point[1]
		fc.Append(f)
	}
	if len(v.Overlays) == 1 {
		c := v.Overlays[0]
		f := geojson.NewFeature(c.Point)
		f.Properties["kind"] = KindLabel
		f.Properties["name"] = c.Name
		fc.Append(f)
	}
	for _, r := range v.Markers {
		f := geojson.NewFeature(orb.Point{r.Lon, r.Lat})
		f.Properties["kind"] = KindFacility
		f.Properties["facility"] = r.Facility
		f.Properties["sport"] = r.Sport
		f.Properties["ownership"] = r.Ownership
		f.Properties["area"] = r.Area
		f.Properties["district"] = r.District
		f.Properties["constituency"] = r.Constituency
		f.Properties["icon"] = IconFor(r.Sport)
		fc.Append(f)
	}
	return fc
}

// OverlayCollection：仅包含选区几何，供地图页面描边
func OverlayCollection(v app.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range v.Overlays {
		f := geojson.NewFeature(c.Geometry)
		f.Properties["name"] = c.Name
		fc.Append(f)
	}
	return fc
}
