// 包 facility：体育设施表格的读取、列重命名与坐标数值化
package facility

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Record：一条体育设施记录；加载后只读
// 约束：Constituency 为匹配后的选区名（可能为空）；Row 为源表格中的行号（表头为第 1 行）
type Record struct {
	Row                  int     `json:"row"`
	District             string  `json:"district"`
	OriginalConstituency string  `json:"original_constituency,omitempty"`
	Constituency         string  `json:"constituency"`
	Facility             string  `json:"facility"`
	Ownership            string  `json:"ownership"`
	Area                 string  `json:"area"`
	Sport                string  `json:"sport"`
	Lat                  float64 `json:"lat"`
	Lon                  float64 `json:"lon"`
}

// Point：记录坐标（经度, 纬度）
func (r Record) Point() orb.Point { return orb.Point{r.Lon, r.Lat} }

// CoercionWarning：坐标无法转为数值，该行被丢弃
type CoercionWarning struct {
	Row    int
	Column string
	Value  string
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("row %d: column %s value %q is not numeric", w.Row, w.Column, w.Value)
}

// Table：一次加载的结果
type Table struct {
	Source   string
	Records  []Record
	Warnings []CoercionWarning
}

// 规范列名
const (
	ColDistrict             = "District"
	ColOriginalConstituency = "Original_Constituency"
	ColConstituency         = "Closest_Match"
	ColFacility             = "Nursery"
	ColOwnership            = "Ownership"
	ColArea                 = "Area"
	ColSport                = "Game"
	ColLat                  = "Lat"
	ColLon                  = "Long"
)

// 缺省值：原表缺少这些列时补齐
const (
	DefaultOwnership = "Unknown"
	DefaultArea      = "0"
	DefaultSport     = "Unknown"
)

// 表头别名 → 规范列名
var headerAliases = map[string]string{
	"name of district": ColDistrict,
	"district":         ColDistrict,

	"name of constituency":  ColOriginalConstituency,
	"original_constituency": ColOriginalConstituency,

	"ac_name":       ColConstituency,
	"closest_match": ColConstituency,
	"constituency":  ColConstituency,

	"name of place": ColFacility,
	"nursery":       ColFacility,
	"facility":      ColFacility,

	"ownership (dept. / school/ m.c./ panchayat etc)": ColOwnership,
	"ownership": ColOwnership,

	"area / acre": ColArea,
	"area":        ColArea,

	"game":  ColSport,
	"sport": ColSport,

	"lat":       ColLat,
	"latitude":  ColLat,
	"long":      ColLon,
	"longitude": ColLon,
}

var requiredColumns = []string{ColDistrict, ColConstituency, ColFacility, ColSport, ColLat, ColLon}

func canonicalHeader(h string) string {
	k := strings.ToLower(strings.Join(strings.Fields(h), " "))
	if c, ok := headerAliases[k]; ok {
		return c
	}
	return ""
}
