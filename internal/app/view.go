package app

import (
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
)

// All：筛选器的“全部”选项
const All = "All"

// Selection：两个相互独立的筛选条件；空字符串等同 All
type Selection struct {
	Constituency string `json:"constituency"`
	Sport        string `json:"sport"`
}

// Normalize：去除空白并把空值统一为 All
func (sel Selection) Normalize() Selection {
	sel.Constituency = normalizeChoice(sel.Constituency)
	sel.Sport = normalizeChoice(sel.Sport)
	return sel
}

func normalizeChoice(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	return v
}

// Key：缓存键片段
func (sel Selection) Key() string {
	sel = sel.Normalize()
	return geometry.NameKey(sel.Constituency) + "|" + sel.Sport
}

// Filter：按选择过滤记录，返回副本；两个条件均为 All 时返回全集
func (s *State) Filter(sel Selection) []facility.Record {
	idx := s.filterIdx(sel.Normalize())
	out := make([]facility.Record, len(idx))
	for i, n := range idx {
		out[i] = s.records[n]
	}
	return out
}

func (s *State) filterIdx(sel Selection) []int {
	var ckey string
	if sel.Constituency != All {
		ckey = geometry.NameKey(sel.Constituency)
	}
	out := make([]int, 0, len(s.records))
	for i, r := range s.records {
		if ckey != "" && geometry.NameKey(r.Constituency) != ckey {
			continue
		}
		if sel.Sport != All && r.Sport != sel.Sport {
			continue
		}
		out = append(out, i)
	}
	return out
}

// canonical：选区名换成下拉选项中的写法；找不到时保持原样
func (s *State) canonical(sel Selection) Selection {
	if sel.Constituency == All {
		return sel
	}
	if c, ok := s.index.Lookup(sel.Constituency); ok {
		sel.Constituency = c.Name
		return sel
	}
	k := geometry.NameKey(sel.Constituency)
	for _, name := range s.constituencyOpts {
		if geometry.NameKey(name) == k {
			sel.Constituency = name
			break
		}
	}
	return sel
}

// 文档注释：选中的选区几何
// 约束：显式选区只取该选区（即使没有记录）；All 取过滤后记录涉及的选区，按几何加载顺序返回。
func (s *State) selected(sel Selection, idx []int) []geometry.Constituency {
	if sel.Constituency != All {
		if c, ok := s.index.Lookup(sel.Constituency); ok {
			return []geometry.Constituency{c}
		}
		return nil
	}
	names := make(map[string]bool)
	for _, n := range idx {
		if s.matched[n] {
			names[s.records[n].Constituency] = true
		}
	}
	var out []geometry.Constituency
	for _, c := range s.index.All() {
		if names[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// View：一次筛选对应的地图视图；Center 为 [纬度, 经度]，与前端地图库一致
type View struct {
	Selection      Selection               `json:"selection"`
	Center         [2]float64              `json:"center"`
	Zoom           int                     `json:"zoom"`
	Names          []string                `json:"constituencies"`
	Overlays       []geometry.Constituency `json:"-"`
	Markers        []facility.Record       `json:"markers"`
	Total          int                     `json:"total"`
	Unmatched      int                     `json:"unmatched"`
	Empty          bool                    `json:"empty"`
	Version        string                  `json:"version"`
	SportCounts    map[string]int          `json:"sport_counts"`
	AllRecordCount int                     `json:"all_records"`
}

// CenterPoint：中心点（经度, 纬度）
func (v View) CenterPoint() orb.Point { return orb.Point{v.Center[1], v.Center[0]} }

// View：计算筛选结果、选中选区、中心与缩放
func (s *State) View(sel Selection) View {
	t0 := time.Now()
	sel = s.canonical(sel.Normalize())
	idx := s.filterIdx(sel)
	cs := s.selected(sel, idx)
	center, zoom := s.policy.Compute(cs)
	v := View{
		Selection:      sel,
		Center:         [2]float64{center[1], center[0]},
		Zoom:           zoom,
		Names:          make([]string, 0, len(cs)),
		Overlays:       cs,
		Markers:        make([]facility.Record, 0, len(idx)),
		Version:        s.version,
		SportCounts:    make(map[string]int),
		AllRecordCount: len(s.records),
	}
	for _, c := range cs {
		v.Names = append(v.Names, c.Name)
	}
	for _, n := range idx {
		r := s.records[n]
		v.Markers = append(v.Markers, r)
		v.SportCounts[r.Sport]++
		if !s.matched[n] {
			v.Unmatched++
		}
	}
	v.Total = len(v.Markers)
	v.Empty = v.Total == 0
	if v.Empty {
		metrics.EmptyViewsTotal.Inc()
	}
	metrics.ViewDurationMs.Observe(float64(time.Since(t0).Microseconds()) / 1000)
	return v
}
