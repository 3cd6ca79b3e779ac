package facility

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/errs"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
)

// Options：加载选项；Sheet 为空时读取第一个工作表
type Options struct {
	Sheet string
}

// 文档注释：加载设施表格（.xlsx 经 excelize，.csv 经 encoding/csv）
// 约束：首行为表头；缺少必需列或文件无法读取时返回 DataLoadError；坐标无法数值化的行被丢弃并记为 CoercionWarning。
func Load(path string, opts Options) (*Table, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, opts.Sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		err = errs.Load(path, "unsupported table source", nil)
	}
	if err != nil {
		return nil, err
	}
	return FromRows(path, rows)
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Load(path, "open workbook", err)
	}
	defer f.Close()
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errs.Load(path, "no sheets found", nil)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.Load(path, "read sheet "+sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errs.Load(path, "open csv", err)
	}
	defer fh.Close()
	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Load(path, "parse csv", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// FromRows：按列契约把原始行转换为记录
func FromRows(source string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errs.Load(source, "empty table", nil)
	}
	cols := make(map[string]int)
	for i, h := range rows[0] {
		c := canonicalHeader(h)
		if c == "" {
			continue
		}
		if _, dup := cols[c]; !dup {
			cols[c] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, errs.Load(source, "missing column "+c, nil)
		}
	}
	cell := func(row []string, col string) (string, bool) {
		i, ok := cols[col]
		if !ok {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return strings.TrimSpace(row[i]), true
	}
	l := logger.L()
	t := &Table{Source: source}
	for n, row := range rows[1:] {
		rowNum := n + 2
		if blankRow(row) {
			continue
		}
		latRaw, _ := cell(row, ColLat)
		lonRaw, _ := cell(row, ColLon)
		lat, okLat := parseCoord(latRaw)
		lon, okLon := parseCoord(lonRaw)
		if !okLat || !okLon {
			w := CoercionWarning{Row: rowNum, Column: ColLat, Value: latRaw}
			if okLat {
				w = CoercionWarning{Row: rowNum, Column: ColLon, Value: lonRaw}
			}
			t.Warnings = append(t.Warnings, w)
			metrics.RowsDroppedTotal.Inc()
			l.Debug("facility_row_dropped", "row", rowNum, "column", w.Column, "value", w.Value)
			continue
		}
		r := Record{Row: rowNum, Lat: lat, Lon: lon}
		r.District, _ = cell(row, ColDistrict)
		r.OriginalConstituency, _ = cell(row, ColOriginalConstituency)
		r.Constituency, _ = cell(row, ColConstituency)
		r.Facility, _ = cell(row, ColFacility)
		if v, ok := cell(row, ColOwnership); ok {
			r.Ownership = v
		} else {
			r.Ownership = DefaultOwnership
		}
		if v, ok := cell(row, ColArea); ok {
			r.Area = v
		} else {
			r.Area = DefaultArea
		}
		r.Sport, _ = cell(row, ColSport)
		if r.Sport == "" {
			r.Sport = DefaultSport
		}
		t.Records = append(t.Records, r)
	}
	l.Info("facility_load_ok", "source", source, "rows", len(rows)-1, "records", len(t.Records), "dropped", len(t.Warnings))
	return t, nil
}

// 坐标数值化：空值、非数字、NaN/Inf 均视为无效
func parseCoord(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
