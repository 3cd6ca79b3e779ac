package render

import (
	"embed"
	"encoding/json"
	"html"
	"html/template"
	"io"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/app"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/version"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("map.html").ParseFS(templateFS, "templates/map.html"))

// Title：页面与侧栏标题
const Title = "Constituency-wise Sports Facilities Map"

// 瓦片图层
const (
	TileURL  = "https://mt1.google.com/vt/lyrs=y&x={x}&y={y}&z={z}"
	TileAttr = "Google Hybrid"
)

type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Icon  string  `json:"icon"`
	Popup string  `json:"popup"`
}

type label struct {
	Name string
	Lat  float64
	Lon  float64
}

type pageData struct {
	Title          string
	APIBase        string
	TileURL        string
	TileAttr       string
	IconPrefix     string
	Commit         string
	Selection      app.Selection
	Constituencies []string
	Sports         []string
	CenterLat      float64
	CenterLon      float64
	Zoom           int
	Label          *label
	Total          int
	Unmatched      int
	Empty          bool
	Overlay        template.JS
	Markers        template.JS
}

// 文档注释：渲染地图页面
// 背景：页面自包含（Leaflet 与聚合插件经 CDN 加载），筛选通过表单 GET 回到同一路径。
// 约束：下拉选项首项为 All；单选区时在代表点放置名称标签。
func MapPage(w io.Writer, v app.View, s *app.State, apiBase string) error {
	overlay, err := json.Marshal(OverlayCollection(v))
	if err != nil {
		return err
	}
	ms := make([]marker, 0, len(v.Markers))
	for _, r := range v.Markers {
		ms = append(ms, marker{Lat: r.Lat, Lon: r.Lon, Icon: IconFor(r.Sport), Popup: Popup(r)})
	}
	mb, err := json.Marshal(ms)
	if err != nil {
		return err
	}
	d := pageData{
		Title:          Title,
		APIBase:        apiBase,
		TileURL:        TileURL,
		TileAttr:       TileAttr,
		IconPrefix:     IconPrefix,
		Commit:         version.Commit,
		Selection:      v.Selection,
		Constituencies: append([]string{app.All}, s.ConstituencyOptions()...),
		Sports:         append([]string{app.All}, s.SportOptions()...),
		CenterLat:      v.Center[0],
		CenterLon:      v.Center[1],
		Zoom:           v.Zoom,
		Total:          v.Total,
		Unmatched:      v.Unmatched,
		Empty:          v.Empty,
		Overlay:        template.JS(overlay),
		Markers:        template.JS(mb),
	}
	if len(v.Overlays) == 1 {
		c := v.Overlays[0]
		d.Label = &label{Name: html.EscapeString(c.Name), Lat: c.Point[1], Lon: c.Point[0]}
	}
	return pageTmpl.Execute(w, d)
}
