package geometry

import "github.com/paulmach/orb"

// 缩放级别：仅为展示常量
const (
	ZoomWide   = 8
	ZoomClose  = 12
	ZoomMedium = 8
)

// FallbackCenter：无选区时的全省视图中心（经度, 纬度）
var FallbackCenter = orb.Point{75.85, 30.9}

// 文档注释：视图范围策略
// 约束：0 个选区返回兜底中心与 Wide；1 个返回其代表点与 Close；多个返回完整包围盒中点与 Medium。
type ExtentPolicy struct {
	Fallback orb.Point
	Wide     int
	Close    int
	Medium   int
}

func DefaultPolicy() ExtentPolicy {
	return ExtentPolicy{Fallback: FallbackCenter, Wide: ZoomWide, Close: ZoomClose, Medium: ZoomMedium}
}

// ComputeExtent：按默认策略计算中心与缩放
func ComputeExtent(selected []Constituency) (orb.Point, int) {
	return DefaultPolicy().Compute(selected)
}

func (p ExtentPolicy) Compute(selected []Constituency) (orb.Point, int) {
	switch len(selected) {
	case 0:
		return p.Fallback, p.Wide
	case 1:
		return selected[0].Point, p.Close
	}
	return UnionBound(selected).Center(), p.Medium
}

// UnionBound：多个选区完整几何的轴对齐包围盒
func UnionBound(cs []Constituency) orb.Bound {
	if len(cs) == 0 {
		return orb.Bound{}
	}
	b := cs[0].Bound
	for _, c := range cs[1:] {
		b = b.Union(c.Bound)
	}
	return b
}
