package geometry

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/text/cases"
)

// NameKey：选区名称匹配键（去首尾空白、折叠连续空白、Unicode 大小写折叠）
func NameKey(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	// cases.Caser 有状态，不可跨协程共享，这里每次新建
	return cases.Fold().String(s)
}

// 文档注释：选区只读索引（名称键 → 选区；坐标 → 所在选区）
// 约束：名称唯一，构建时重复名称保留先出现者；Locate 先做包围盒过滤，再做平面点入多边形判定。
type Index struct {
	items []Constituency
	byKey map[string]int
}

func NewIndex(cs []Constituency) *Index {
	ix := &Index{byKey: make(map[string]int, len(cs))}
	for _, c := range cs {
		k := NameKey(c.Name)
		if _, ok := ix.byKey[k]; ok {
			continue
		}
		ix.byKey[k] = len(ix.items)
		ix.items = append(ix.items, c)
	}
	return ix
}

func (ix *Index) Len() int { return len(ix.items) }

// All：按加载顺序返回全部选区（副本）
func (ix *Index) All() []Constituency {
	return append([]Constituency(nil), ix.items...)
}

func (ix *Index) Lookup(name string) (Constituency, bool) {
	i, ok := ix.byKey[NameKey(name)]
	if !ok {
		return Constituency{}, false
	}
	return ix.items[i], true
}

// Locate：返回包含该点的第一个选区
func (ix *Index) Locate(pt orb.Point) (Constituency, bool) {
	for _, c := range ix.items {
		if !c.Bound.Contains(pt) {
			continue
		}
		if Contains(c.Geometry, pt) {
			return c, true
		}
	}
	return Constituency{}, false
}

// Contains：点是否落在多边形内（洞内视为不在）
func Contains(g orb.Geometry, pt orb.Point) bool {
	switch v := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(v, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(v, pt)
	}
	return false
}
