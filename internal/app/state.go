// 包 app：一次性加载后的只读应用状态，以及按筛选条件计算视图
package app

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/geometry"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
)

// Options：构建选项
type Options struct {
	// 记录未填选区名时按坐标落入的选区补齐
	MatchByLocation bool
	Extent          geometry.ExtentPolicy

	// 几何加载报告，仅用于汇总统计
	Geometry geometry.LoadReport
}

// LoadReport：加载阶段的汇总，供 /stats 输出
type LoadReport struct {
	FacilitySource     string    `json:"facility_source"`
	ConstituencySource string    `json:"constituency_source"`
	Records            int       `json:"records"`
	DroppedRows        int       `json:"dropped_rows"`
	Constituencies     int       `json:"constituencies"`
	InvalidGeometries  int       `json:"invalid_geometries"`
	DuplicateNames     int       `json:"duplicate_names"`
	Unmatched          int       `json:"unmatched"`
	Located            int       `json:"located"`
	LoadedAt           time.Time `json:"loaded_at"`
}

// 文档注释：只读应用状态
// 约束：Build 之后不再修改；并发请求共享同一实例，无需加锁。
// records 中的 Constituency 已替换为几何的规范名称；未匹配的记录保留原名称并计入 unmatched。
type State struct {
	records          []facility.Record
	matched          []bool
	index            *geometry.Index
	constituencyOpts []string
	sportOpts        []string
	counts           map[string]int
	unmatched        []facility.Record
	policy           geometry.ExtentPolicy
	version          string
	report           LoadReport
}

// Build：连接设施记录与选区几何
func Build(t *facility.Table, cs []geometry.Constituency, opts Options) *State {
	if opts.Extent == (geometry.ExtentPolicy{}) {
		opts.Extent = geometry.DefaultPolicy()
	}
	s := &State{
		index:  geometry.NewIndex(cs),
		counts: make(map[string]int),
		policy: opts.Extent,
	}
	s.report.Constituencies = s.index.Len()
	s.report.ConstituencySource = opts.Geometry.Source
	s.report.InvalidGeometries = len(opts.Geometry.Invalid)
	s.report.DuplicateNames = len(opts.Geometry.Duplicates)
	s.report.LoadedAt = time.Now()
	if t != nil {
		s.report.FacilitySource = t.Source
		s.report.DroppedRows = len(t.Warnings)
		s.records = make([]facility.Record, 0, len(t.Records))
		s.matched = make([]bool, 0, len(t.Records))
		for _, r := range t.Records {
			ok := false
			if r.Constituency != "" {
				if c, hit := s.index.Lookup(r.Constituency); hit {
					r.Constituency = c.Name
					ok = true
				}
			} else if opts.MatchByLocation {
				if c, hit := s.index.Locate(r.Point()); hit {
					r.Constituency = c.Name
					ok = true
					s.report.Located++
				}
			}
			if !ok {
				s.unmatched = append(s.unmatched, r)
			}
			s.records = append(s.records, r)
			s.matched = append(s.matched, ok)
			s.counts[r.Constituency]++
		}
	}
	s.report.Records = len(s.records)
	s.report.Unmatched = len(s.unmatched)
	s.constituencyOpts, s.sportOpts = buildOptions(s.records, s.index)
	s.version = fingerprint(s.records, s.index)

	metrics.FacilitiesLoaded.Set(float64(len(s.records)))
	metrics.ConstituenciesLoaded.Set(float64(s.index.Len()))
	metrics.UnmatchedFacilities.Set(float64(len(s.unmatched)))
	l := logger.L()
	if len(s.unmatched) > 0 {
		l.Warn("facility_unmatched", "count", len(s.unmatched))
	}
	l.Info("state_build_ok", "records", len(s.records), "constituencies", s.index.Len(), "sports", len(s.sportOpts), "located", s.report.Located, "version", s.version)
	return s
}

// 选项列表：选区为几何名称与记录名称的并集；均按字典序
func buildOptions(records []facility.Record, ix *geometry.Index) ([]string, []string) {
	cset := make(map[string]bool)
	for _, c := range ix.All() {
		cset[c.Name] = true
	}
	sset := make(map[string]bool)
	for _, r := range records {
		if r.Constituency != "" {
			cset[r.Constituency] = true
		}
		sset[r.Sport] = true
	}
	return sortedKeys(cset), sortedKeys(sset)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// 数据版本：记录与几何的 FNV-64a 指纹，用作缓存键前缀
func fingerprint(records []facility.Record, ix *geometry.Index) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, r := range records {
		h.Write([]byte(r.Constituency))
		h.Write([]byte(r.Sport))
		h.Write([]byte(r.Facility))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Lat))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Lon))
		h.Write(buf[:])
	}
	for _, c := range ix.All() {
		h.Write([]byte(c.Name))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.Area))
		h.Write(buf[:])
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

func (s *State) Records() []facility.Record {
	return append([]facility.Record(nil), s.records...)
}

func (s *State) Unmatched() []facility.Record {
	return append([]facility.Record(nil), s.unmatched...)
}

func (s *State) Constituencies() []geometry.Constituency { return s.index.All() }

// ConstituencyOptions：下拉选项（不含 All）
func (s *State) ConstituencyOptions() []string { return append([]string(nil), s.constituencyOpts...) }

func (s *State) SportOptions() []string { return append([]string(nil), s.sportOpts...) }

func (s *State) Version() string { return s.version }

func (s *State) Report() LoadReport { return s.report }

// CountByConstituency：各选区设施数量
func (s *State) CountByConstituency() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
