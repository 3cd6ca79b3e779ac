package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// 文档注释：几何归约（多面取最大面积部分 → 质心）
// 约束：面积相等时保留先出现的部分（按部件下标稳定）；空集合、无外环、外环少于 4 点或面积为 0 时返回 InvalidGeometryError。
func Reduce(g orb.Geometry) (orb.Point, error) {
	part, _, err := dominantPart(g)
	if err != nil {
		return orb.Point{}, err
	}
	pt, _ := centroidArea(part)
	return pt, nil
}

// DominantPart：返回多面中面积最大的部分；单面直接校验后返回
func DominantPart(g orb.Geometry) (orb.Polygon, error) {
	p, _, err := dominantPart(g)
	return p, err
}

func dominantPart(g orb.Geometry) (orb.Polygon, float64, error) {
	switch v := g.(type) {
	case nil:
		return nil, 0, &InvalidGeometryError{Reason: "empty geometry"}
	case orb.Polygon:
		if reason := checkPolygon(v); reason != "" {
			return nil, 0, &InvalidGeometryError{Reason: reason}
		}
		_, a := centroidArea(v)
		if a <= 0 {
			return nil, 0, &InvalidGeometryError{Reason: "zero area"}
		}
		return v, a, nil
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, 0, &InvalidGeometryError{Reason: "empty multipolygon"}
		}
		best := -1
		bestArea := 0.0
		for i, p := range v {
			if checkPolygon(p) != "" {
				continue
			}
			_, a := centroidArea(p)
			// 严格大于：相等面积保留较小下标
			if best < 0 || a > bestArea {
				best, bestArea = i, a
			}
		}
		if best < 0 {
			return nil, 0, &InvalidGeometryError{Reason: "no valid part"}
		}
		if bestArea <= 0 {
			return nil, 0, &InvalidGeometryError{Reason: "zero area"}
		}
		return v[best], bestArea, nil
	default:
		return nil, 0, &InvalidGeometryError{Reason: "unsupported type " + g.GeoJSONType()}
	}
}

func checkPolygon(p orb.Polygon) string {
	if len(p) == 0 {
		return "polygon without rings"
	}
	if len(p[0]) < 4 {
		return "outer ring has fewer than 4 points"
	}
	for _, pt := range p[0] {
		if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) || math.IsInf(pt[0], 0) || math.IsInf(pt[1], 0) {
			return "non-finite coordinate"
		}
	}
	return ""
}

// 面积加权质心；洞按面积扣除
func centroidArea(p orb.Polygon) (orb.Point, float64) {
	return planar.CentroidArea(p)
}
