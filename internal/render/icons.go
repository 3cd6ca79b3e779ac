// 包 render：地图页面、GeoJSON 输出与统计图表
package render

import (
	"fmt"
	"html"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/facility"
)

// DefaultIcon：未登记运动项目使用的图标
const DefaultIcon = "info-sign"

// IconPrefix：图标字体前缀（Font Awesome）
const IconPrefix = "fa"

var sportIcons = map[string]string{
	"Basketball": "basketball-ball",
	"Volleyball": "volleyball-ball",
	"Football":   "futbol",
	"Cricket":    "baseball-ball",
	"Hockey":     "hockey-puck",
}

// IconFor：按运动项目返回图标名，区分大小写
func IconFor(sport string) string {
	if v, ok := sportIcons[sport]; ok {
		return v
	}
	return DefaultIcon
}

// Popup：标记弹窗 HTML；字段内容均做转义
func Popup(r facility.Record) string {
	return fmt.Sprintf("<b>%s</b><br>%s<br>%s<br>Area: %s",
		html.EscapeString(r.Facility),
		html.EscapeString(r.Sport),
		html.EscapeString(r.Ownership),
		html.EscapeString(r.Area))
}
