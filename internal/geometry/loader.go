package geometry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/errs"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
)

// DefaultNameField：选区名称属性
const DefaultNameField = "AC_NAME"

// LoadReport：加载结果统计
type LoadReport struct {
	Source     string
	Features   int
	Loaded     int
	Invalid    []*InvalidGeometryError
	Duplicates []string
}

type rawFeature struct {
	name string
	geom orb.Geometry
}

// 文档注释：加载选区边界
// 约束：.shp 通过 go-shp 读取（需同名 .dbf）；.geojson/.json 需为 FeatureCollection。
// 源文件缺失、无法解析或缺少名称属性时返回 DataLoadError；单个要素的几何无效只记入报告。
func LoadConstituencies(path, nameField string) ([]Constituency, LoadReport, error) {
	if nameField == "" {
		nameField = DefaultNameField
	}
	rep := LoadReport{Source: path}
	var raws []rawFeature
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		raws, err = readShapefile(path, nameField)
	case ".geojson", ".json":
		raws, err = readGeoJSON(path, nameField)
	default:
		err = errs.Load(path, "unsupported polygon source", nil)
	}
	if err != nil {
		return nil, rep, err
	}
	rep.Features = len(raws)
	l := logger.L()
	seen := make(map[string]bool, len(raws))
	out := make([]Constituency, 0, len(raws))
	for _, rf := range raws {
		c, err := NewConstituency(rf.name, rf.geom)
		if err != nil {
			var ig *InvalidGeometryError
			if errors.As(err, &ig) {
				rep.Invalid = append(rep.Invalid, ig)
			}
			metrics.InvalidGeometriesTotal.Inc()
			l.Warn("constituency_invalid", "name", rf.name, "err", err)
			continue
		}
		k := NameKey(c.Name)
		if seen[k] {
			rep.Duplicates = append(rep.Duplicates, c.Name)
			l.Warn("constituency_duplicate", "name", c.Name)
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	rep.Loaded = len(out)
	l.Info("constituency_load_ok", "source", path, "features", rep.Features, "loaded", rep.Loaded, "invalid", len(rep.Invalid), "duplicates", len(rep.Duplicates))
	return out, rep, nil
}

func readShapefile(path, nameField string) ([]rawFeature, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errs.Load(path, "open shapefile", err)
	}
	r, err := shp.Open(path)
	if err != nil {
		return nil, errs.Load(path, "open shapefile", err)
	}
	defer r.Close()
	idx := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(strings.TrimSpace(f.String()), nameField) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errs.Load(path, "missing field "+nameField, nil)
	}
	var out []rawFeature
	for r.Next() {
		n, s := r.Shape()
		rf := rawFeature{name: attrString(r.ReadAttribute(n, idx))}
		switch p := s.(type) {
		case *shp.Polygon:
			rf.geom = assemble(splitRings(p.Parts, p.Points))
		case *shp.PolygonZ:
			rf.geom = assemble(splitRings(p.Parts, p.Points))
		case *shp.PolygonM:
			rf.geom = assemble(splitRings(p.Parts, p.Points))
		}
		out = append(out, rf)
	}
	if err := r.Err(); err != nil {
		return nil, errs.Load(path, "read shapefile", err)
	}
	return out, nil
}

// DBF 文本字段以 NUL 或空格补齐定长
func attrString(v string) string {
	return strings.TrimSpace(strings.Trim(v, " \x00"))
}

// 按 Parts 偏移切分环
func splitRings(parts []int32, pts []shp.Point) []orb.Ring {
	rings := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := len(pts)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) >= end || end > len(pts) {
			continue
		}
		ring := make(orb.Ring, 0, end-int(start))
		for _, p := range pts[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// 文档注释：按环方向组装多边形
// 约束：Shapefile 约定外环顺时针、洞逆时针；顺时针环开启新多边形，逆时针环挂到前一个多边形；首环方向异常时仍作外环。
func assemble(rings []orb.Ring) orb.Geometry {
	var mp orb.MultiPolygon
	for _, r := range rings {
		if len(mp) == 0 || r.Orientation() == orb.CW {
			mp = append(mp, orb.Polygon{r})
			continue
		}
		mp[len(mp)-1] = append(mp[len(mp)-1], r)
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

func readGeoJSON(path, nameField string) ([]rawFeature, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Load(path, "read geojson", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, errs.Load(path, "parse geojson", err)
	}
	out := make([]rawFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, rawFeature{name: propString(f.Properties, nameField), geom: f.Geometry})
	}
	return out, nil
}

// 属性名大小写不敏感读取
func propString(p geojson.Properties, key string) string {
	if v, ok := p[key].(string); ok {
		return strings.TrimSpace(v)
	}
	for k, v := range p {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// ToFeatureCollection：导出为 GeoJSON，属性包含 name、rep_x、rep_y、area；dominant 为 true 时只输出面积最大的部分
func ToFeatureCollection(cs []Constituency, dominant bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range cs {
		g := c.Geometry
		if dominant {
			g = c.Dominant
		}
		f := geojson.NewFeature(g)
		f.Properties["name"] = c.Name
		f.Properties["rep_x"] = c.Point[0]
		f.Properties["rep_y"] = c.Point[1]
		f.Properties["area"] = c.Area
		fc.Append(f)
	}
	return fc
}
