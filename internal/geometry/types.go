package geometry

import (
	"errors"

	"github.com/paulmach/orb"
)

// 文档注释：选区几何的最小数据结构
// 约束：Geometry 仅为 orb.Polygon 或 orb.MultiPolygon；加载后只读。
// Point 为主体部分的面积加权质心（x=经度，y=纬度，坐标系同数据源）；Bound 覆盖完整几何而非主体部分。
type Constituency struct {
	Name     string
	Geometry orb.Geometry
	Dominant orb.Polygon
	Point    orb.Point
	Bound    orb.Bound
	Area     float64
}

// NewConstituency：对几何做归约并填充派生字段
func NewConstituency(name string, g orb.Geometry) (Constituency, error) {
	if name == "" {
		return Constituency{}, &InvalidGeometryError{Reason: "missing name"}
	}
	part, area, err := dominantPart(g)
	if err != nil {
		var ig *InvalidGeometryError
		if errors.As(err, &ig) {
			ig.Name = name
		}
		return Constituency{}, err
	}
	pt, _ := centroidArea(part)
	return Constituency{
		Name:     name,
		Geometry: g,
		Dominant: part,
		Point:    pt,
		Bound:    g.Bound(),
		Area:     area,
	}, nil
}

// ErrInvalidGeometry：用于 errors.Is 判定
var ErrInvalidGeometry = errors.New("invalid geometry")

// InvalidGeometryError：空集合或退化几何；仅影响该选区，不终止加载
type InvalidGeometryError struct {
	Name   string
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	if e.Name == "" {
		return "invalid geometry: " + e.Reason
	}
	return "invalid geometry " + e.Name + ": " + e.Reason
}

func (e *InvalidGeometryError) Is(target error) bool { return target == ErrInvalidGeometry }
